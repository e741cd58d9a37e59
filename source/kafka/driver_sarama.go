// Package kafka streams CSV-encoded records out of Kafka topics. Each
// message value is one CSV record; the consumer group keeps its offset with
// sarama auto-commit after a row has been handed to the pull side.
package kafka

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/IBM/sarama"
	"github.com/oleg578/swiftcsv"

	"github.com/dhatim/csvsed/internal/logging"
	"github.com/dhatim/csvsed/source"
)

type SaramaDriver struct {
	cfg   Config
	cl    sarama.Client
	group sarama.ConsumerGroup

	rows chan []string
	errs chan error

	startOnce sync.Once
	cancel    context.CancelFunc
}

func (d *SaramaDriver) Configure(raw any) error {
	cfg, ok := raw.(Config)
	if !ok {
		return fmt.Errorf("kafka-source: expected Config, got %T", raw)
	}
	d.cfg = cfg
	d.rows = make(chan []string, cfg.Buffer)
	d.errs = make(chan error, 1)

	ver, err := sarama.ParseKafkaVersion(cfg.Version)
	if err != nil {
		return err
	}
	sc := sarama.NewConfig()
	sc.Version = ver
	sc.Consumer.Return.Errors = true
	if cfg.TLSEn {
		sc.Net.TLS.Enable = true
	}
	if cfg.SASLUser != "" {
		sc.Net.SASL.Enable = true
		sc.Net.SASL.User, sc.Net.SASL.Password = cfg.SASLUser, cfg.SASLPass
	}
	switch cfg.StartFrom {
	case "oldest":
		sc.Consumer.Offsets.Initial = sarama.OffsetOldest
	default:
		sc.Consumer.Offsets.Initial = sarama.OffsetNewest
	}

	if d.cl, err = sarama.NewClient(cfg.Brokers, sc); err != nil {
		return err
	}
	d.group, err = sarama.NewConsumerGroupFromClient(cfg.GroupID, d.cl)
	return err
}

// Next blocks until a row arrives, the consumer fails, or ctx ends. A Kafka
// stream has no natural EOF; cancellation is how it stops.
func (d *SaramaDriver) Next(ctx context.Context) ([]string, error) {
	d.startOnce.Do(func() {
		runCtx, cancel := context.WithCancel(context.Background())
		d.cancel = cancel
		go d.consume(runCtx)
	})
	select {
	case row := <-d.rows:
		return row, nil
	case err := <-d.errs:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (d *SaramaDriver) consume(ctx context.Context) {
	handler := &groupHandler{driver: d}
	for {
		if err := d.group.Consume(ctx, d.cfg.Topics, handler); err != nil {
			d.fail(err)
			return
		}
		if ctx.Err() != nil {
			d.fail(ctx.Err())
			return
		}
		// rebalance: loop and rejoin
	}
}

func (d *SaramaDriver) fail(err error) {
	select {
	case d.errs <- err:
	default:
	}
}

func (d *SaramaDriver) Close() error {
	if d.cancel != nil {
		d.cancel()
	}
	var err error
	if d.group != nil {
		err = d.group.Close()
	}
	if d.cl != nil {
		_ = d.cl.Close()
	}
	return err
}

type groupHandler struct {
	driver *SaramaDriver
}

func (*groupHandler) Setup(sarama.ConsumerGroupSession) error { return nil }

func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	logging.L().Debug("kafka-source: session cleanup")
	return nil
}

func (h *groupHandler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case <-sess.Context().Done():
			return sess.Context().Err()
		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			row, err := h.driver.decode(msg.Value)
			if err != nil {
				return fmt.Errorf("kafka-source: %s[%d]@%d: %w", msg.Topic, msg.Partition, msg.Offset, err)
			}
			select {
			case h.driver.rows <- row:
				sess.MarkMessage(msg, "")
			case <-sess.Context().Done():
				return sess.Context().Err()
			}
		}
	}
}

func (d *SaramaDriver) decode(value []byte) ([]string, error) {
	r := swiftcsv.NewReader(bytes.NewReader(value))
	if d.cfg.Comma != 0 {
		r.Comma = d.cfg.Comma
	}
	if d.cfg.Quote != 0 {
		r.Quote = d.cfg.Quote
	}
	return r.Read()
}

func init() {
	source.Register("kafka", func() source.Adapter { return &SaramaDriver{} })
}
