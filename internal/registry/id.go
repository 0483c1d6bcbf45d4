package registry

import "go.jetify.com/typeid"

// jobPrefix makes generated ids self-describing, e.g. "job_01h2xcejqtf2nbrexx3vqjhp41".
type jobPrefix struct{}

func (jobPrefix) Prefix() string { return "job" }

type jobID struct {
	typeid.TypeID[jobPrefix]
}

// newJobID returns a new opaque, process-unique job id string.
func newJobID() (string, error) {
	id, err := typeid.New[jobID]()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
