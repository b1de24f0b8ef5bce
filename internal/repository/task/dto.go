package task

import (
	"encoding/binary"
	"math"
	"strconv"

	domtask "github.com/tasknest/tasknest/internal/domain/task"
)

const (
	fieldTitle        = "title"
	fieldPriority     = "priority"
	fieldStatus       = "status"
	fieldCategory     = "category"
	fieldUserID       = "user_id"
	fieldCreatedAt    = "created_at"
	fieldUpdatedAt    = "updated_at"
	fieldEmbedding    = "embedding"
	fieldHasEmbedding = "has_embedding"
)

// buildHashFields converts a domain Task into a flat map[string]string for HSET.
func buildHashFields(t domtask.Task) map[string]string {
	m := map[string]string{
		fieldTitle:        t.Title(),
		fieldPriority:     string(t.Priority()),
		fieldStatus:       string(t.Status()),
		fieldCategory:     t.Category(),
		fieldUserID:       t.UserID(),
		fieldCreatedAt:    strconv.FormatInt(t.CreatedAt(), 10),
		fieldUpdatedAt:    strconv.FormatInt(t.UpdatedAt(), 10),
		fieldHasEmbedding: "0",
	}
	if t.HasVector() {
		m[fieldEmbedding] = vectorToBytes(t.Vector())
		m[fieldHasEmbedding] = "1"
	}
	return m
}

// parseHashFields converts a flat hash map back into a domain Task.
func parseHashFields(id string, m map[string]string) domtask.Task {
	createdAt, _ := strconv.ParseInt(m[fieldCreatedAt], 10, 64)
	updatedAt, _ := strconv.ParseInt(m[fieldUpdatedAt], 10, 64)

	var vector []float32
	if raw, ok := m[fieldEmbedding]; ok && raw != "" {
		vector = bytesToVector(raw)
	}

	return domtask.Reconstruct(
		id,
		m[fieldTitle],
		domtask.Priority(m[fieldPriority]),
		domtask.Status(m[fieldStatus]),
		m[fieldCategory],
		m[fieldUserID],
		createdAt,
		updatedAt,
		vector,
	)
}

// vectorToBytes serializes []float32 to a binary string (4 bytes per float, little-endian).
func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}

// bytesToVector deserializes a binary string back to []float32.
func bytesToVector(s string) []float32 {
	b := []byte(s)
	if len(b)%4 != 0 {
		return nil
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}
