package vision

import (
	"context"
	"encoding/json"
	"math"
	"net"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// maxDatagram bounds one update; a frame's worth of tags fits easily.
const maxDatagram = 8192

// Update is one datagram from the vision co-processor.
type Update struct {
	Entries map[string][]float64 `json:"entries"`
}

// Publisher collects table writes for one frame and sends them to the
// controller on Flush.
type Publisher struct {
	conn net.Conn

	lock    sync.Mutex
	pending Update
}

var _ Table = (*Publisher)(nil)

func Dial(addr string) (*Publisher, error) {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "dialling controller at %s", addr)
	}
	return &Publisher{conn: conn, pending: Update{Entries: map[string][]float64{}}}, nil
}

func (p *Publisher) PutNumber(key string, v float64) {
	p.PutNumberArray(key, []float64{v})
}

// PutNumberArray drops values JSON can't carry (NaN and the infinities)
// rather than losing the whole frame at Flush.
func (p *Publisher) PutNumberArray(key string, v []float64) {
	for _, x := range v {
		if math.IsInf(x, 0) || math.IsNaN(x) {
			return
		}
	}
	p.lock.Lock()
	p.pending.Entries[key] = append([]float64(nil), v...)
	p.lock.Unlock()
}

// Flush sends the pending writes, if any.
func (p *Publisher) Flush() error {
	p.lock.Lock()
	u := p.pending
	p.pending = Update{Entries: map[string][]float64{}}
	p.lock.Unlock()
	if len(u.Entries) == 0 {
		return nil
	}
	buf, err := json.Marshal(u)
	if err != nil {
		return errors.Wrap(err, "encoding vision update")
	}
	if len(buf) > maxDatagram {
		return errors.Errorf("vision update too large: %d bytes", len(buf))
	}
	_, err = p.conn.Write(buf)
	return errors.Wrap(err, "sending vision update")
}

func (p *Publisher) Close() error {
	return p.conn.Close()
}

// Listener applies updates arriving on a UDP port to a MemTable.
type Listener struct {
	log  *zap.SugaredLogger
	conn net.PacketConn
	t    *MemTable
}

func Listen(log *zap.SugaredLogger, addr string, t *MemTable) (*Listener, error) {
	conn, err := net.ListenPacket("udp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "listening for vision on %s", addr)
	}
	return &Listener{log: log, conn: conn, t: t}, nil
}

func (l *Listener) Addr() net.Addr {
	return l.conn.LocalAddr()
}

// Loop runs until ctx is done.  Bad datagrams are logged and dropped.
func (l *Listener) Loop(ctx context.Context) {
	go func() {
		<-ctx.Done()
		_ = l.conn.Close()
	}()
	buf := make([]byte, maxDatagram)
	for {
		n, from, err := l.conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() == nil {
				l.log.Errorw("Vision listener failed", "error", err)
			}
			return
		}
		var u Update
		if err := json.Unmarshal(buf[:n], &u); err != nil {
			l.log.Warnw("Dropping bad vision update", "from", from, "error", err)
			continue
		}
		l.t.Apply(u)
	}
}
