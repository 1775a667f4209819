// Package task defines the entries written to the failure streams.
package task

import "encoding/json"

// Task is one failure stream entry. Entries of the same TaskType share a stream.
type Task interface {
	TaskType() string
	TaskValue() ([]byte, error)
}

func encode(t Task) ([]byte, error) {
	return json.Marshal(t)
}

// decode parses the task_data field of a stream entry.
func decode[T Task](payload []byte) (T, error) {
	var t T
	err := json.Unmarshal(payload, &t)
	return t, err
}
