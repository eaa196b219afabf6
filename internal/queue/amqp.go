package queue

import (
	"encoding/json"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
)

// AMQPQueue publishes to and consumes from durable queues named after the topic,
// through the default exchange.
type AMQPQueue struct {
	conn *amqp.Connection
	log  zerolog.Logger

	mu       sync.Mutex
	pub      *amqp.Channel
	declared map[string]bool
}

// DialAMQP connects to the broker and opens the publishing channel.
func DialAMQP(url string, logger zerolog.Logger) (*AMQPQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errors.Wrap(err, "connect to amqp")
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "open amqp channel")
	}

	return &AMQPQueue{
		conn:     conn,
		log:      logger,
		pub:      ch,
		declared: map[string]bool{},
	}, nil
}

func declare(ch *amqp.Channel, topic string) error {
	_, err := ch.QueueDeclare(
		topic,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	return errors.Wrapf(err, "declare queue %s", topic)
}

// Publish sends payload as a persistent JSON message. []byte payloads are sent as is.
func (q *AMQPQueue) Publish(topic string, payload any) error {
	body, ok := payload.([]byte)
	if !ok {
		var err error
		if body, err = json.Marshal(payload); err != nil {
			return errors.Wrap(err, "encode payload")
		}
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.declared[topic] {
		if err := declare(q.pub, topic); err != nil {
			return err
		}
		q.declared[topic] = true
	}

	err := q.pub.Publish(
		"",
		topic,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	return errors.Wrapf(err, "publish to %s", topic)
}

// Subscribe consumes topic on a dedicated channel. The handler receives the raw
// message body. Failed deliveries are requeued once and dropped on the second failure.
func (q *AMQPQueue) Subscribe(topic string, handler func(payload any) error) error {
	ch, err := q.conn.Channel()
	if err != nil {
		return errors.Wrap(err, "open amqp channel")
	}
	if err := declare(ch, topic); err != nil {
		_ = ch.Close()
		return err
	}

	msgs, err := ch.Consume(
		topic,
		"",
		false, // autoAck = false for reliability
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		return errors.Wrapf(err, "consume %s", topic)
	}

	go func() {
		for d := range msgs {
			if err := handler(d.Body); err != nil {
				requeue := !d.Redelivered
				q.log.Warn().Err(err).Str("topic", topic).Bool("requeue", requeue).Msg("message handling failed")
				_ = d.Nack(false, requeue)
				continue
			}
			_ = d.Ack(false)
		}
		q.log.Info().Str("topic", topic).Msg("consumer stopped")
	}()

	return nil
}

// NotifyClose reports broker-side connection closure.
func (q *AMQPQueue) NotifyClose() <-chan *amqp.Error {
	return q.conn.NotifyClose(make(chan *amqp.Error, 1))
}

func (q *AMQPQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	_ = q.pub.Close()
	return q.conn.Close()
}
