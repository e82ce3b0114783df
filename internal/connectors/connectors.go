package connectors

import "github.com/fernandisraphael-art/solinvestti-sub000/internal"

// MailConnector fetches raw messages from the partners inbox where plant
// spreadsheets arrive.
type MailConnector interface {
	FetchInbox(label string, max int) ([]internal.FetchedMailMessage, error)
}
