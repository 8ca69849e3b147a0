// Package flow implements the intake conversation state machine: a fixed
// ladder of questions that fills a session's record one answer at a time.
package flow

import (
	"context"
	"log"
	"regexp"
	"time"

	"github.com/saudemt/diskdengue/internal/session"
)

// PhotoStore persists an inbound photo and returns the reference recorded in
// the form. Deferred backends need the record row to exist first and are
// called after submission instead of at the photo step.
type PhotoStore interface {
	// Store saves the image. protocol is empty when called at the photo
	// step; deferred backends receive the tracking code after submission.
	Store(ctx context.Context, img session.Image, protocol string) (string, error)
	Deferred() bool
}

// Input is one user turn as seen by the state machine.
type Input struct {
	Text  string
	Image *session.Image
}

// Result is the outcome of a turn: the scripted replies to send in order,
// and whether the session reached the terminal step (submit and clear).
type Result struct {
	Replies   []string
	Completed bool
}

var phoneRe = regexp.MustCompile(`^\d{10,11}$`)

// ValidPhone reports whether raw is exactly 10 or 11 ASCII digits.
func ValidPhone(raw string) bool {
	return phoneRe.MatchString(raw)
}

type Engine struct {
	photos    PhotoStore
	photoStep bool
	now       func() time.Time
}

func NewEngine(photos PhotoStore, photoStep bool) *Engine {
	return &Engine{
		photos:    photos,
		photoStep: photoStep,
		now:       time.Now,
	}
}

// Greeting is the opening script sent when a session is created.
func (e *Engine) Greeting() []string {
	return []string{MsgGreeting, MsgMenu}
}

// Handle advances the session one step for the given input and returns the
// replies to send. Invalid input re-prompts without advancing; an unknown
// step resets the conversation to the menu.
func (e *Engine) Handle(ctx context.Context, s *session.Session, in Input) Result {
	switch s.Step {
	case session.StepOption:
		label, ok := complaintTypes[in.Text]
		if !ok {
			return Result{Replies: []string{MsgMenu}}
		}
		s.Record.ComplaintType = label
		s.Step = session.StepDescription
		return Result{Replies: []string{MsgAskDescription}}

	case session.StepDescription:
		// Any text is accepted verbatim, including blank.
		s.Record.Description = in.Text
		if e.photoStep {
			s.Step = session.StepPhoto
			return Result{Replies: []string{MsgAskPhoto, MsgPhotoSkipHint}}
		}
		s.Step = session.StepAddress
		return Result{Replies: []string{MsgThanksDescription, MsgAskAddress}}

	case session.StepPhoto:
		s.Record.Photo = e.storePhoto(ctx, s, in.Image)
		s.Step = session.StepAddress
		return Result{Replies: []string{MsgAddressIntro, MsgAskAddress}}

	case session.StepAddress:
		s.Record.Address = in.Text
		s.Step = session.StepLandmark
		return Result{Replies: []string{MsgAskLandmark, MsgLandmarkExample}}

	case session.StepLandmark:
		s.Record.Landmark = in.Text
		s.Step = session.StepNeighborhood
		return Result{Replies: []string{MsgAskNeighborhood}}

	case session.StepNeighborhood:
		s.Record.Neighborhood = in.Text
		s.Step = session.StepPhone
		return Result{Replies: []string{MsgAskPhone, MsgPhoneExample}}

	case session.StepPhone:
		if !ValidPhone(in.Text) {
			return Result{Replies: []string{MsgPhoneInvalid}}
		}
		s.Record.Phone = in.Text
		s.Record.Protocol = Protocol(e.now())
		s.Step = session.StepRating
		return Result{Replies: []string{
			MsgThanksInfo,
			MsgProtocolPrefix + s.Record.Protocol,
			MsgForwardTeam,
			MsgAskRating,
			MsgRatingScale,
		}}

	case session.StepRating:
		switch in.Text {
		case "1", "2", "3", "4", "5":
			s.Record.Rating = in.Text
			return Result{Completed: true}
		}
		return Result{Replies: []string{MsgFallback}}

	default:
		// Unreachable under correct operation. Self-heal: restart at the menu.
		log.Printf("[flow] session %s in unknown step %q, resetting", s.UserID, s.Step)
		s.Step = session.StepOption
		return Result{Replies: e.Greeting()}
	}
}

// storePhoto resolves the photo field for the record: a stored reference, a
// deferred marker, or a sentinel. It never blocks the flow on a failure.
func (e *Engine) storePhoto(ctx context.Context, s *session.Session, img *session.Image) string {
	if img == nil {
		return PhotoNotProvided
	}
	if e.photos == nil {
		return PhotoFailed
	}
	if e.photos.Deferred() {
		s.Record.Image = img
		return PhotoDeferred
	}

	ref, err := e.photos.Store(ctx, *img, "")
	if err != nil {
		log.Printf("[flow] store photo for %s failed: %v", s.UserID, err)
		return PhotoFailed
	}
	return ref
}
