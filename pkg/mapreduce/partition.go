package mapreduce

import "hash/fnv"

// Partition maps a key to one of n reduce partitions. Every record of a key
// lands in the same partition, so partitions can be reduced independently.
func Partition(key string, n int) int {
	if n <= 1 {
		return 0
	}
	h := fnv.New32a()
	h.Write([]byte(key))
	return int(h.Sum32()&0x7fffffff) % n
}

// RecordKey returns the partitioning key (the word) of a record line.
func RecordKey(line string) string {
	for i := 0; i < len(line); i++ {
		if line[i] == '\t' {
			return line[:i]
		}
	}
	return line
}
