package messaging

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/sowmya-kancharla03/CuraCare/internal/core/ports"
)

var _ ports.AppointmentEventPublisher = (*RabbitMQBroker)(nil)

func (rmq *RabbitMQBroker) PublishAppointmentEvent(ctx context.Context, evt ports.AppointmentEvent) error {
	msg, err := newPublishing(evt)
	if err != nil {
		return err
	}

	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) <= 0 {
		return ctx.Err()
	}

	_, err = rmq.cb.Execute(func() (interface{}, error) {
		return nil, rmq.ch.PublishWithContext(
			ctx,
			rmq.exchange,
			evt.EventType, // routing key
			false,         // mandatory
			false,         // immediate
			msg,
		)
	})
	return err
}

func newPublishing(evt ports.AppointmentEvent) (amqp.Publishing, error) {
	body, err := json.Marshal(evt)
	if err != nil {
		return amqp.Publishing{}, err
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Type:         evt.EventType,
		MessageId:    evt.AppointmentID + ":" + strconv.Itoa(evt.Version),
		Timestamp:    evt.OccurredAt,
		Body:         body,
	}, nil
}
