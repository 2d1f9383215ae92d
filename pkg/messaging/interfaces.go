package messaging

// Publisher is the downstream persistence collaborator. It receives one
// JSON-serializable intelligence record per processing job.
type Publisher interface {
	PublishRecord(jobID string, record interface{}) error
	IsConnected() bool
	Connect() error
	Disconnect()
}
