package plugin

import (
	"strconv"

	"github.com/Shopify/sarama"
	"github.com/google/uuid"
	"github.com/vearne/reasm/protocol"
	slog "github.com/vearne/simplelog"
)

// KafkaOutput publishes reassembled records to a Kafka topic.
// One record per message; the sequence number travels in a header so
// consumers can verify ordering without decoding the body.
type KafkaOutput struct {
	producer sarama.SyncProducer
	codec    protocol.Codec
	topic    string
	// identifies this reassembler instance in message keys
	instanceID string
}

func NewKafkaOutput(codec string, brokers []string, topic string) (*KafkaOutput, error) {
	var o KafkaOutput
	o.codec = protocol.GetCodec(codec)
	o.topic = topic
	o.instanceID = uuid.NewString()

	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForLocal
	cfg.Producer.Return.Successes = true
	cfg.Producer.Retry.Max = 3

	var err error
	o.producer, err = sarama.NewSyncProducer(brokers, cfg)
	slog.Info("NewKafkaOutput, brokers:%v, topic:%v, error:%v", brokers, topic, err)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (o *KafkaOutput) Close() error {
	return o.producer.Close()
}

func (o *KafkaOutput) PluginWrite(pkt *protocol.Packet) error {
	data, err := o.codec.Marshal(pkt)
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: o.topic,
		Key:   sarama.StringEncoder(o.instanceID),
		Value: sarama.ByteEncoder(data),
		Headers: []sarama.RecordHeader{
			{Key: []byte("sequence"), Value: []byte(strconv.FormatUint(pkt.Sequence, 10))},
		},
	}

	partition, offset, err := o.producer.SendMessage(msg)
	if err != nil {
		slog.Error("KafkaOutput-SendMessage, error:%v", err)
		return err
	}
	slog.Debug("KafkaOutput-SendMessage, partition:%v, offset:%v", partition, offset)
	return nil
}
