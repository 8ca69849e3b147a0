package sheet

import (
	"context"
	"log"
	"time"

	"github.com/saudemt/diskdengue/internal/flow"
	"github.com/saudemt/diskdengue/internal/session"
)

// Submitter forwards completed records to the record store. Failures are
// logged and reported as false, never propagated: the caller degrades to a
// "received but not confirmed" message and the session still terminates.
type Submitter struct {
	client *Client
	photos flow.PhotoStore
	now    func() time.Time
}

func NewSubmitter(client *Client, photos flow.PhotoStore) *Submitter {
	return &Submitter{client: client, photos: photos, now: time.Now}
}

// Submit stamps the record with the service-timezone timestamp, appends it,
// and uploads any deferred photo once the row exists.
func (s *Submitter) Submit(ctx context.Context, rec *session.Record) bool {
	rec.SubmittedAt = flow.Timestamp(s.now())

	ok, err := s.client.AppendRecord(ctx, rec)
	if err != nil {
		log.Printf("[sheet] append record %s failed: %v", rec.Protocol, err)
		return false
	}
	if !ok {
		log.Printf("[sheet] store rejected record %s", rec.Protocol)
		return false
	}

	if rec.Image != nil && s.photos != nil && s.photos.Deferred() {
		if ref, err := s.photos.Store(ctx, *rec.Image, rec.Protocol); err != nil {
			log.Printf("[sheet] attach photo to %s failed: %v", rec.Protocol, err)
			rec.Photo = flow.PhotoFailed
		} else {
			rec.Photo = ref
		}
	}

	return true
}
