package realtime

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/bnema/marketplace-txn/internal/adapters/api"
	"github.com/bnema/marketplace-txn/internal/domain"
	"github.com/bnema/marketplace-txn/internal/ports"
)

// keepAliveID is the id the server puts on heartbeat frames.
const keepAliveID = -1

var errStreamEnded = errors.New("stream ended by server")

// Stream is one open event stream. Updates is closed when the stream ends.
type Stream struct {
	id      domain.TransactionID
	body    io.ReadCloser
	cancel  context.CancelFunc
	logger  zerolog.Logger
	updates chan domain.Transaction
	done    chan struct{}

	closeOnce sync.Once
	closeErr  error

	mu     sync.Mutex
	err    error
	closed bool
}

var _ ports.UpdateStream = (*Stream)(nil)

func newStream(id domain.TransactionID, body io.ReadCloser, cancel context.CancelFunc, logger zerolog.Logger) *Stream {
	s := &Stream{
		id:      id,
		body:    body,
		cancel:  cancel,
		logger:  logger,
		updates: make(chan domain.Transaction),
		done:    make(chan struct{}),
	}
	go s.readLoop()
	return s
}

func (s *Stream) Updates() <-chan domain.Transaction {
	return s.updates
}

// Err reports why the stream ended. It is nil while the stream is live and
// after Close.
func (s *Stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close releases the connection. Only the first call closes the body.
func (s *Stream) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()

		close(s.done)
		s.closeErr = s.body.Close()
		s.cancel()
	})
	return s.closeErr
}

func (s *Stream) readLoop() {
	defer close(s.updates)

	reader := bufio.NewReader(s.body)
	var (
		data  bytes.Buffer
		event string
	)

	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			line = strings.TrimRight(line, "\r\n")
			switch {
			case line == "":
				if data.Len() > 0 && !s.dispatch(event, data.Bytes()) {
					return
				}
				data.Reset()
				event = ""
			case strings.HasPrefix(line, ":"):
			default:
				field, value, _ := strings.Cut(line, ":")
				value = strings.TrimPrefix(value, " ")
				switch field {
				case "data":
					if data.Len() > 0 {
						data.WriteByte('\n')
					}
					data.WriteString(value)
				case "event":
					event = value
				}
			}
		}
		if err != nil {
			s.finish(err)
			return
		}
	}
}

// dispatch delivers one event. It returns false once the stream was closed.
func (s *Stream) dispatch(event string, payload []byte) bool {
	if isKeepAlive(event, payload) {
		return true
	}

	tx, err := api.DecodeTransaction(payload)
	if err != nil {
		s.logger.Warn().Err(err).Int64("transaction_id", int64(s.id)).Msg("skipping malformed stream event")
		return true
	}
	if tx.ID != s.id {
		s.logger.Warn().Int64("transaction_id", int64(s.id)).Int64("event_id", int64(tx.ID)).Msg("skipping event for another transaction")
		return true
	}

	select {
	case s.updates <- tx:
		return true
	case <-s.done:
		return false
	}
}

func (s *Stream) finish(readErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if errors.Is(readErr, io.EOF) {
		readErr = errStreamEnded
	}
	s.err = fmt.Errorf("transaction %d stream: %w: %w", s.id, domain.ErrConnection, readErr)
}

// isKeepAlive reports whether an event is a heartbeat rather than a
// snapshot: a heartbeat type, a missing or sentinel id, or a payload that is
// not an object at all.
func isKeepAlive(event string, payload []byte) bool {
	if event == "heartbeat" {
		return true
	}
	if !gjson.ValidBytes(payload) {
		return false
	}
	parsed := gjson.ParseBytes(payload)
	if !parsed.IsObject() {
		return true
	}
	if parsed.Get("type").String() == "heartbeat" {
		return true
	}
	id := parsed.Get("id")
	return !id.Exists() || id.Int() == keepAliveID || id.Int() == 0
}
