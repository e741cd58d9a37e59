// Package kafka publishes CSV-encoded rows to a Kafka topic, one record per
// message.
package kafka

import (
	"bytes"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/oleg578/swiftcsv"

	"github.com/dhatim/csvsed/internal/logging"
	"github.com/dhatim/csvsed/sink"
)

type Config struct {
	Brokers []string `koanf:"brokers"`
	Topic   string   `koanf:"topic"`
	Acks    int16    `koanf:"required_acks"` // 0,1,-1
	Comma   byte     `koanf:"comma"`
	Quote   byte     `koanf:"quote"`
}

type driver struct {
	cfg Config
	p   sarama.SyncProducer
}

func (d *driver) Configure(raw any) error {
	cfg, ok := raw.(Config)
	if !ok {
		return fmt.Errorf("kafka-sink: expected Config, got %T", raw)
	}
	d.cfg = cfg

	sc := sarama.NewConfig()
	sc.Producer.RequiredAcks = sarama.RequiredAcks(cfg.Acks)
	sc.Producer.Return.Successes = true // required by the sync producer
	var err error
	d.p, err = sarama.NewSyncProducer(cfg.Brokers, sc)
	return err
}

// PushHeader is a no-op: republishing a header row into a record stream
// would interleave it with data from other producers.
func (d *driver) PushHeader(row []string) error {
	logging.L().Debug("kafka-sink: header row not republished", "fields", len(row))
	return nil
}

func (d *driver) Push(row []string) error {
	value, err := d.encode(row)
	if err != nil {
		return err
	}
	_, _, err = d.p.SendMessage(&sarama.ProducerMessage{
		Topic: d.cfg.Topic,
		Value: sarama.ByteEncoder(value),
	})
	return err
}

func (d *driver) encode(row []string) ([]byte, error) {
	var buf bytes.Buffer
	w := swiftcsv.NewWriter(&buf)
	if d.cfg.Comma != 0 {
		w.Comma = d.cfg.Comma
	}
	if d.cfg.Quote != 0 {
		w.Quote = d.cfg.Quote
	}
	if err := w.Write(row); err != nil {
		return nil, err
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (d *driver) Close() error {
	if d.p == nil {
		return nil
	}
	err := d.p.Close()
	d.p = nil
	return err
}

func init() {
	sink.Register("kafka", func() sink.Adapter { return &driver{} })
}
