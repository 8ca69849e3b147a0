// Package gateway wires the transport channels to the intake flow: it owns
// the session store, the reaper, the state machine and the record-store
// submitter, and processes one turn per inbound message.
package gateway

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/saudemt/diskdengue/internal/bus"
	"github.com/saudemt/diskdengue/internal/channel"
	"github.com/saudemt/diskdengue/internal/config"
	"github.com/saudemt/diskdengue/internal/flow"
	"github.com/saudemt/diskdengue/internal/session"
	"github.com/saudemt/diskdengue/internal/sheet"
)

// fallbackName is recorded when the transport gives no display name.
const fallbackName = "Não informado"

// Submitter persists a completed record (allows mocking in tests).
type Submitter interface {
	Submit(ctx context.Context, rec *session.Record) bool
}

// Options for creating a Gateway
type Options struct {
	Submitter  Submitter
	SignalChan chan os.Signal // for testing signal handling
}

type Gateway struct {
	cfg       *config.Config
	bus       *bus.MessageBus
	store     *session.Store
	reaper    *session.Reaper
	engine    *flow.Engine
	submitter Submitter
	channels  *channel.ChannelManager

	lockMu    sync.Mutex
	userLocks map[string]*sync.Mutex

	signalChan chan os.Signal // for testing
}

// New creates a Gateway with default options
func New(cfg *config.Config) (*Gateway, error) {
	return NewWithOptions(cfg, Options{})
}

// NewWithOptions creates a Gateway with custom options for testing
func NewWithOptions(cfg *config.Config, opts Options) (*Gateway, error) {
	g := &Gateway{
		cfg:        cfg,
		bus:        bus.NewMessageBus(config.DefaultBufSize),
		store:      session.NewStore(),
		userLocks:  make(map[string]*sync.Mutex),
		signalChan: opts.SignalChan,
	}

	g.reaper = session.NewReaper(g.store, cfg.Flow.SessionTimeout(), cfg.Flow.ReaperInterval())

	client := sheet.NewClient(cfg.Sheet.URL, nil)
	var photos flow.PhotoStore
	switch cfg.Photo.Mode {
	case config.PhotoModeLocal:
		photos = sheet.NewLocalPhotoStore(cfg.Photo.Dir)
	case config.PhotoModeSheet:
		photos = sheet.NewSheetPhotoStore(client)
	default:
		return nil, fmt.Errorf("unknown photo mode %q", cfg.Photo.Mode)
	}

	g.engine = flow.NewEngine(photos, cfg.Flow.PhotoStep)

	g.submitter = opts.Submitter
	if g.submitter == nil {
		g.submitter = sheet.NewSubmitter(client, photos)
	}

	chMgr, err := channel.NewChannelManager(cfg.Channels, g.bus)
	if err != nil {
		return nil, fmt.Errorf("create channel manager: %w", err)
	}
	g.channels = chMgr

	return g, nil
}

func (g *Gateway) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go g.bus.DispatchOutbound(ctx)

	if err := g.channels.StartAll(ctx); err != nil {
		return fmt.Errorf("start channels: %w", err)
	}
	log.Printf("[gateway] channels started: %v", g.channels.EnabledChannels())

	if err := g.reaper.Start(); err != nil {
		return fmt.Errorf("start reaper: %w", err)
	}

	go g.processLoop(ctx)

	log.Printf("[gateway] disk dengue intake running")

	// Use injected signal channel for testing, or create default
	sigCh := g.signalChan
	if sigCh == nil {
		sigCh = make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	}
	<-sigCh

	log.Printf("[gateway] shutting down...")
	return g.Shutdown()
}

func (g *Gateway) processLoop(ctx context.Context) {
	for {
		select {
		case msg := <-g.bus.Inbound:
			log.Printf("[gateway] inbound from %s/%s: %s", msg.Channel, msg.SenderID, truncate(msg.Content, 80))
			go g.handleTurn(ctx, msg)
		case <-ctx.Done():
			return
		}
	}
}

// handleTurn processes one user turn to completion. Turns from the same user
// are serialized by a per-user lock; different users run concurrently.
func (g *Gateway) handleTurn(ctx context.Context, msg bus.InboundMessage) {
	key := msg.SessionKey()
	mu := g.userLock(key)
	mu.Lock()
	defer mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("[gateway] turn for %s failed: %v", key, r)
			g.store.Remove(key)
			g.send(msg, flow.MsgApology)
		}
	}()

	now := time.Now()
	s, ok := g.store.Get(key)
	if !ok {
		// First contact: any message opens the menu. This also covers a user
		// whose session the reaper just expired (last writer wins).
		name := strings.TrimSpace(msg.PushName)
		if name == "" {
			name = fallbackName
		}
		g.store.CreateOrReset(key, msg.Channel, msg.ChatID, name, now)
		g.sendAll(msg, g.engine.Greeting())
		return
	}
	g.store.Touch(key, now)

	var img *session.Image
	if msg.Attachment != nil {
		img = &session.Image{Data: msg.Attachment.Data, MimeType: msg.Attachment.MimeType}
	}

	res := g.engine.Handle(ctx, s, flow.Input{Text: msg.Content, Image: img})
	g.sendAll(msg, res.Replies)

	if res.Completed {
		stored := g.submitter.Submit(ctx, &s.Record)
		if stored {
			g.send(msg, flow.MsgSubmitOK)
		} else {
			g.send(msg, flow.MsgSubmitPartial)
		}
		g.store.Remove(key)
		log.Printf("[gateway] session %s completed, protocol=%s stored=%v", key, s.Record.Protocol, stored)
	}
}

// sendAll sends scripted messages in order with the typing delay before each.
func (g *Gateway) sendAll(msg bus.InboundMessage, texts []string) {
	for _, text := range texts {
		time.Sleep(g.cfg.Flow.TypingDelay())
		g.bus.Outbound <- bus.OutboundMessage{
			Channel: msg.Channel,
			ChatID:  msg.ChatID,
			Content: text,
		}
	}
}

func (g *Gateway) send(msg bus.InboundMessage, text string) {
	g.sendAll(msg, []string{text})
}

func (g *Gateway) userLock(key string) *sync.Mutex {
	g.lockMu.Lock()
	defer g.lockMu.Unlock()
	mu, ok := g.userLocks[key]
	if !ok {
		mu = &sync.Mutex{}
		g.userLocks[key] = mu
	}
	return mu
}

func (g *Gateway) Shutdown() error {
	g.reaper.Stop()
	_ = g.channels.StopAll()
	log.Printf("[gateway] shutdown complete")
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
