package bind_group_provider

// BufferWrite is one queued uniform upload: Data lands in the provider's buffer for Binding
// starting at Offset bytes.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}
