package repository

// inQueryBatchSize caps how many IDs go into one = ANY($1) lookup. Large ID
// sets are chunked and the results merged in input order.
const inQueryBatchSize = 30

func chunkInts(ids []int, size int) [][]int {
	if size <= 0 {
		size = inQueryBatchSize
	}
	var chunks [][]int
	for len(ids) > 0 {
		n := size
		if len(ids) < n {
			n = len(ids)
		}
		chunks = append(chunks, ids[:n])
		ids = ids[n:]
	}
	return chunks
}

func chunkStrings(keys []string, size int) [][]string {
	if size <= 0 {
		size = inQueryBatchSize
	}
	var chunks [][]string
	for len(keys) > 0 {
		n := size
		if len(keys) < n {
			n = len(keys)
		}
		chunks = append(chunks, keys[:n])
		keys = keys[n:]
	}
	return chunks
}
