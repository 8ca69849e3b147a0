package flow

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/saudemt/diskdengue/internal/session"
)

type fakePhotoStore struct {
	deferred bool
	ref      string
	err      error
	calls    int
}

func (f *fakePhotoStore) Deferred() bool { return f.deferred }

func (f *fakePhotoStore) Store(ctx context.Context, img session.Image, protocol string) (string, error) {
	f.calls++
	return f.ref, f.err
}

func newTestSession() *session.Session {
	return &session.Session{
		UserID:       "whatsapp:5567999990000@s.whatsapp.net",
		Channel:      "whatsapp",
		ChatID:       "5567999990000@s.whatsapp.net",
		Step:         session.StepOption,
		Record:       session.Record{Name: "Maria"},
		LastActivity: time.Now(),
	}
}

func TestHandle_OptionValid(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"1", "IMÓVEL C/ ASPECTO DE ABANDONO"},
		{"2", "TERRENO BALDIO"},
		{"3", "LIXO ACUMULADO"},
		{"4", "IMÓVEL C/ ACÚMULO DE DEPÓSITOS"},
	}

	for _, tt := range tests {
		e := NewEngine(nil, false)
		s := newTestSession()
		res := e.Handle(context.Background(), s, Input{Text: tt.code})

		if s.Record.ComplaintType != tt.want {
			t.Errorf("option %q: complaint type = %q, want %q", tt.code, s.Record.ComplaintType, tt.want)
		}
		if s.Step != session.StepDescription {
			t.Errorf("option %q: step = %q, want %q", tt.code, s.Step, session.StepDescription)
		}
		if len(res.Replies) != 1 || res.Replies[0] != MsgAskDescription {
			t.Errorf("option %q: replies = %v", tt.code, res.Replies)
		}
	}
}

func TestHandle_OptionInvalidResendsMenu(t *testing.T) {
	e := NewEngine(nil, false)
	s := newTestSession()

	for _, input := range []string{"5", "0", "oi", ""} {
		res := e.Handle(context.Background(), s, Input{Text: input})
		if s.Step != session.StepOption {
			t.Fatalf("input %q: step advanced to %q", input, s.Step)
		}
		if len(res.Replies) != 1 || res.Replies[0] != MsgMenu {
			t.Errorf("input %q: replies = %v, want menu", input, res.Replies)
		}
	}
}

func TestHandle_DescriptionAcceptsAnything(t *testing.T) {
	// Any text is stored verbatim, including blank. Intentional looseness.
	for _, desc := range []string{"um terreno cheio de mato", "", "   "} {
		e := NewEngine(nil, false)
		s := newTestSession()
		s.Step = session.StepDescription

		e.Handle(context.Background(), s, Input{Text: desc})
		if s.Record.Description != desc {
			t.Errorf("description = %q, want %q", s.Record.Description, desc)
		}
		if s.Step != session.StepAddress {
			t.Errorf("step = %q, want %q", s.Step, session.StepAddress)
		}
	}
}

func TestHandle_DescriptionLeadsToPhotoWhenEnabled(t *testing.T) {
	e := NewEngine(&fakePhotoStore{}, true)
	s := newTestSession()
	s.Step = session.StepDescription

	res := e.Handle(context.Background(), s, Input{Text: "mato alto"})
	if s.Step != session.StepPhoto {
		t.Fatalf("step = %q, want %q", s.Step, session.StepPhoto)
	}
	if len(res.Replies) != 2 || res.Replies[0] != MsgAskPhoto {
		t.Errorf("replies = %v", res.Replies)
	}
}

func TestHandle_PhotoAbsent(t *testing.T) {
	ps := &fakePhotoStore{ref: "unused"}
	e := NewEngine(ps, true)
	s := newTestSession()
	s.Step = session.StepPhoto

	e.Handle(context.Background(), s, Input{Text: "não tenho"})
	if s.Record.Photo != PhotoNotProvided {
		t.Errorf("photo = %q, want %q", s.Record.Photo, PhotoNotProvided)
	}
	if ps.calls != 0 {
		t.Errorf("photo store called %d times for absent photo", ps.calls)
	}
	if s.Step != session.StepAddress {
		t.Errorf("step = %q, want %q", s.Step, session.StepAddress)
	}
}

func TestHandle_PhotoStored(t *testing.T) {
	ps := &fakePhotoStore{ref: "/photos/foto-1.jpg"}
	e := NewEngine(ps, true)
	s := newTestSession()
	s.Step = session.StepPhoto

	img := &session.Image{Data: []byte{0xff, 0xd8}, MimeType: "image/jpeg"}
	e.Handle(context.Background(), s, Input{Image: img})

	if s.Record.Photo != "/photos/foto-1.jpg" {
		t.Errorf("photo = %q, want stored ref", s.Record.Photo)
	}
	if s.Record.Image != nil {
		t.Error("image should not be retained after immediate storage")
	}
}

func TestHandle_PhotoStoreFailureRecordsSentinel(t *testing.T) {
	ps := &fakePhotoStore{err: errors.New("disk full")}
	e := NewEngine(ps, true)
	s := newTestSession()
	s.Step = session.StepPhoto

	e.Handle(context.Background(), s, Input{Image: &session.Image{Data: []byte{1}, MimeType: "image/png"}})

	if s.Record.Photo != PhotoFailed {
		t.Errorf("photo = %q, want %q", s.Record.Photo, PhotoFailed)
	}
	if s.Step != session.StepAddress {
		t.Errorf("failure blocked the flow: step = %q", s.Step)
	}
}

func TestHandle_PhotoDeferredKeepsImage(t *testing.T) {
	ps := &fakePhotoStore{deferred: true}
	e := NewEngine(ps, true)
	s := newTestSession()
	s.Step = session.StepPhoto

	img := &session.Image{Data: []byte{1, 2, 3}, MimeType: "image/jpeg"}
	e.Handle(context.Background(), s, Input{Image: img})

	if s.Record.Photo != PhotoDeferred {
		t.Errorf("photo = %q, want %q", s.Record.Photo, PhotoDeferred)
	}
	if s.Record.Image != img {
		t.Error("image should be retained for post-submit upload")
	}
	if ps.calls != 0 {
		t.Errorf("deferred store called %d times at photo step", ps.calls)
	}
}

func TestHandle_AddressLandmarkNeighborhood(t *testing.T) {
	e := NewEngine(nil, false)
	s := newTestSession()
	s.Step = session.StepAddress

	e.Handle(context.Background(), s, Input{Text: "Rua das Flores, 123"})
	if s.Record.Address != "Rua das Flores, 123" || s.Step != session.StepLandmark {
		t.Fatalf("address = %q step = %q", s.Record.Address, s.Step)
	}

	e.Handle(context.Background(), s, Input{Text: "em frente à praça"})
	if s.Record.Landmark != "em frente à praça" || s.Step != session.StepNeighborhood {
		t.Fatalf("landmark = %q step = %q", s.Record.Landmark, s.Step)
	}

	e.Handle(context.Background(), s, Input{Text: "Centro"})
	if s.Record.Neighborhood != "Centro" || s.Step != session.StepPhone {
		t.Fatalf("neighborhood = %q step = %q", s.Record.Neighborhood, s.Step)
	}
}

func TestValidPhone(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"6798765432", true},
		{"67987654321", true},
		{"679876543", false},
		{"679876543212", false},
		{"abc123", false},
		{"67 98765432", false},
		{"67987654-32", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ValidPhone(tt.input); got != tt.want {
			t.Errorf("ValidPhone(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestHandle_PhoneInvalidReprompts(t *testing.T) {
	e := NewEngine(nil, false)
	s := newTestSession()
	s.Step = session.StepPhone

	res := e.Handle(context.Background(), s, Input{Text: "abc123"})
	if s.Step != session.StepPhone {
		t.Errorf("step advanced to %q on invalid phone", s.Step)
	}
	if s.Record.Phone != "" {
		t.Errorf("phone recorded: %q", s.Record.Phone)
	}
	if len(res.Replies) != 1 || res.Replies[0] != MsgPhoneInvalid {
		t.Errorf("replies = %v", res.Replies)
	}
}

func TestHandle_PhoneValidIssuesProtocol(t *testing.T) {
	e := NewEngine(nil, false)
	s := newTestSession()
	s.Step = session.StepPhone

	res := e.Handle(context.Background(), s, Input{Text: "67987654321"})
	if s.Record.Phone != "67987654321" {
		t.Errorf("phone = %q", s.Record.Phone)
	}
	if !protocolRe.MatchString(s.Record.Protocol) {
		t.Errorf("protocol = %q, want DEN-DDMMYYYY-NNN", s.Record.Protocol)
	}
	if s.Step != session.StepRating {
		t.Errorf("step = %q, want %q", s.Step, session.StepRating)
	}
	if len(res.Replies) != 5 {
		t.Fatalf("replies = %d messages, want 5", len(res.Replies))
	}
	if !strings.HasPrefix(res.Replies[1], MsgProtocolPrefix) {
		t.Errorf("second reply = %q, want protocol message", res.Replies[1])
	}
}

func TestHandle_RatingValidCompletes(t *testing.T) {
	for _, rating := range []string{"1", "2", "3", "4", "5"} {
		e := NewEngine(nil, false)
		s := newTestSession()
		s.Step = session.StepRating

		res := e.Handle(context.Background(), s, Input{Text: rating})
		if !res.Completed {
			t.Errorf("rating %q: not completed", rating)
		}
		if s.Record.Rating != rating {
			t.Errorf("rating recorded = %q, want %q", s.Record.Rating, rating)
		}
	}
}

func TestHandle_RatingInvalidFallsBack(t *testing.T) {
	e := NewEngine(nil, false)
	s := newTestSession()
	s.Step = session.StepRating

	for _, input := range []string{"6", "0", "ótimo", ""} {
		res := e.Handle(context.Background(), s, Input{Text: input})
		if res.Completed {
			t.Errorf("input %q completed the flow", input)
		}
		if s.Step != session.StepRating {
			t.Errorf("input %q: step = %q", input, s.Step)
		}
		if len(res.Replies) != 1 || res.Replies[0] != MsgFallback {
			t.Errorf("input %q: replies = %v", input, res.Replies)
		}
	}
}

func TestHandle_UnknownStepResets(t *testing.T) {
	e := NewEngine(nil, false)
	s := newTestSession()
	s.Step = session.Step("corrupted")

	res := e.Handle(context.Background(), s, Input{Text: "oi"})
	if s.Step != session.StepOption {
		t.Errorf("step = %q, want reset to %q", s.Step, session.StepOption)
	}
	if len(res.Replies) != 2 || res.Replies[0] != MsgGreeting || res.Replies[1] != MsgMenu {
		t.Errorf("replies = %v, want greeting + menu", res.Replies)
	}
}

// TestHandle_FullWalk runs the whole ladder front to back and checks the
// record ends up fully populated.
func TestHandle_FullWalk(t *testing.T) {
	e := NewEngine(&fakePhotoStore{}, true)
	s := newTestSession()
	ctx := context.Background()

	e.Handle(ctx, s, Input{Text: "2"})
	e.Handle(ctx, s, Input{Text: "um terreno baldio cheio de mato"})
	e.Handle(ctx, s, Input{Text: "sem foto"})
	e.Handle(ctx, s, Input{Text: "Av. Brasil, 500"})
	e.Handle(ctx, s, Input{Text: "próximo ao mercado X"})
	e.Handle(ctx, s, Input{Text: "Jardim Europa"})
	e.Handle(ctx, s, Input{Text: "67987654321"})
	res := e.Handle(ctx, s, Input{Text: "5"})

	if !res.Completed {
		t.Fatal("flow did not complete")
	}

	rec := s.Record
	if rec.ComplaintType != "TERRENO BALDIO" ||
		rec.Description != "um terreno baldio cheio de mato" ||
		rec.Photo != PhotoNotProvided ||
		rec.Address != "Av. Brasil, 500" ||
		rec.Landmark != "próximo ao mercado X" ||
		rec.Neighborhood != "Jardim Europa" ||
		rec.Phone != "67987654321" ||
		rec.Rating != "5" ||
		rec.Protocol == "" {
		t.Errorf("record incomplete: %+v", rec)
	}
}
