package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/Astemirdum/room-reservation/pkg/circuit_breaker"
	"github.com/Astemirdum/room-reservation/pkg/kafka"
	"github.com/Astemirdum/room-reservation/reservation/internal/model"
	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Publisher interface {
	Publish(ctx context.Context, typ kafka.EventType, rsv model.Reservation) error
}

type publisher struct {
	producer   sarama.SyncProducer
	topic      string
	dateLayout string
	cb         circuit_breaker.CircuitBreaker
	log        *zap.Logger
	now        func() time.Time
}

func NewPublisher(producer sarama.SyncProducer, topic, dateLayout string, log *zap.Logger) *publisher {
	const (
		recordLength     = 10
		timeout          = 10 * time.Second
		percentile       = 0.5
		recoveryRequests = 2
	)
	return &publisher{
		producer:   producer,
		topic:      topic,
		dateLayout: dateLayout,
		cb:         circuit_breaker.New(recordLength, timeout, percentile, recoveryRequests),
		log:        log.Named("events"),
		now:        time.Now,
	}
}

func (p *publisher) Publish(_ context.Context, typ kafka.EventType, rsv model.Reservation) error {
	ev := kafka.EventReservation{
		ID:            uuid.New(),
		Type:          typ,
		Timestamp:     p.now().UTC(),
		ReservationID: rsv.ID,
		RoomNumber:    rsv.RoomNumber,
		UserID:        rsv.UserID,
		DateBegin:     rsv.DateBegin.Format(p.dateLayout),
		DateEnd:       rsv.DateEnd.Format(p.dateLayout),
		FullPrice:     rsv.FullPrice,
		Status:        string(rsv.Status),
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strconv.Itoa(rsv.RoomNumber)),
		Value: sarama.ByteEncoder(data),
	}
	err = p.cb.Call(func() error {
		_, _, err := p.producer.SendMessage(msg)
		return err
	})
	if err != nil {
		return errors.Wrapf(err, "publish %s", typ)
	}
	p.log.Debug("published", zap.String("type", string(typ)), zap.Int64("reservation", rsv.ID))
	return nil
}

func (p *publisher) Close() error {
	return p.producer.Close()
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, kafka.EventType, model.Reservation) error { return nil }
