package badger

import (
	"encoding/binary"
	"time"

	"github.com/baibhavbista/gai-workcycles/core"
)

// Key prefixes for different data types
const (
	jobPrefix        = "embjob"
	jobPendingPrefix = "embjobq"
	vectorPrefix     = "vecrec"
	vectorLevelPrefix = "vecrecl"
)

// makeJobKey generates a key for a job by its deterministic id.
func makeJobKey(id string) []byte {
	return []byte(jobPrefix + ":" + id)
}

// makeJobPendingKey generates a composite key for the pending index.
// Format: prefix:level:createdAt:id
// Level comes before the timestamp so lexicographic iteration yields
// (level, createdAt) ascending: field jobs before cycle and session jobs.
func makeJobPendingKey(level core.JobLevel, createdAt time.Time, id string) []byte {
	prefix := jobPendingPrefix + ":"
	prefixBytes := []byte(prefix)
	totalSize := len(prefixBytes) + 1 + 8 + len(id)
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	buf[offset] = byte(level)
	offset++
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(createdAt.UnixMicro()))
	offset += 8
	copy(buf[offset:], []byte(id))
	return buf
}

// makeVectorKey generates a key for a vector record by id.
func makeVectorKey(id string) []byte {
	return []byte(vectorPrefix + ":" + id)
}

// makeVectorLevelKey generates a composite key for the level index.
// Format: prefix:level:id
func makeVectorLevelKey(level core.JobLevel, id string) []byte {
	prefix := vectorLevelPrefix + ":"
	prefixBytes := []byte(prefix)
	totalSize := len(prefixBytes) + 1 + len(id)
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	buf[offset] = byte(level)
	offset++
	copy(buf[offset:], []byte(id))
	return buf
}

// makePartialVectorLevelKey generates a partial key for level scans.
func makePartialVectorLevelKey(level core.JobLevel) []byte {
	prefix := vectorLevelPrefix + ":"
	prefixBytes := []byte(prefix)
	buf := make([]byte, len(prefixBytes)+1)
	offset := copy(buf, prefixBytes)
	buf[offset] = byte(level)
	return buf
}
