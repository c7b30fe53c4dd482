package interfaces

// Service is a long running interface of the daemon. Start must not block.
type Service interface {
	Start() error
	Stop()
}
