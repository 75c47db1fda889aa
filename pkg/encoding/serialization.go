package encoding

// Serializable provides a clean, simple interface for serializing and deserializing values.
type Serializable interface {
	Marshal() ([]byte, error)
	Unmarshal([]byte) error
}
