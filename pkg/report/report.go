// Package report publishes records of device exchanges over MQTT.
package report

import (
	"strings"

	"github.com/golang/glog"
	"github.com/golang/protobuf/proto"
	"github.com/google/uuid"

	"github.com/robotalks/dcm.go/pkg/link"
	pb "github.com/robotalks/dcm.go/pkg/proto/dcm/v1"
)

// Topic layout: dcm/<dcm-id>/report, relative to the queue prefix.
const (
	topicRoot   = "dcm"
	topicReport = "report"
)

// Topic returns the report topic of a DCM.
func Topic(dcmID string) string {
	return topicRoot + "/" + dcmID + "/" + topicReport
}

// ParseTopic extracts the DCM ID from a report topic.
func ParseTopic(topic string) (string, error) {
	items := strings.Split(topic, "/")
	if len(items) != 3 || items[0] != topicRoot || items[2] != topicReport || items[1] == "" {
		return "", &InvalidTopicError{Topic: topic}
	}
	return items[1], nil
}

// New creates the report of an exchange.
func New(dcmID, operator string, x *link.Exchange) *pb.ExchangeReport {
	r := &pb.ExchangeReport{
		Id:          uuid.New().String(),
		DcmId:       dcmID,
		Operator:    operator,
		Port:        x.Port,
		Function:    x.Function,
		Mode:        x.Mode,
		Request:     x.Request,
		Response:    x.Response,
		Status:      x.Result(),
		TimestampMs: x.Start.UnixNano() / 1e6,
		DurationUs:  x.Duration.Nanoseconds() / 1e3,
	}
	if x.Err != nil {
		r.Error = x.Err.Error()
	}
	return r
}

// Encode encodes a report.
func Encode(r *pb.ExchangeReport) ([]byte, error) {
	return proto.Marshal(r)
}

// Decode decodes a report.
func Decode(data []byte) (*pb.ExchangeReport, error) {
	var r pb.ExchangeReport
	if err := proto.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Transport delivers encoded reports.
type Transport interface {
	Publish(topic string, payload []byte) error
}

// Publisher publishes reports of a DCM.
type Publisher struct {
	Transport Transport
	DCMID     string
	Operator  string
}

// NewPublisher creates a Publisher on an MQTT broker. It must be
// connected before publishing.
func NewPublisher(brokerURL, dcmID string) (*Publisher, error) {
	q, err := NewQueueFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	return &Publisher{Transport: q, DCMID: dcmID}, nil
}

// Connect connects the underlying queue.
func (p *Publisher) Connect() error {
	if q, ok := p.Transport.(*Queue); ok {
		return q.Connect()
	}
	return nil
}

// Close closes the underlying queue.
func (p *Publisher) Close() error {
	if q, ok := p.Transport.(*Queue); ok {
		return q.Close()
	}
	return nil
}

// Publish encodes and publishes a report.
func (p *Publisher) Publish(r *pb.ExchangeReport) error {
	data, err := Encode(r)
	if err != nil {
		return err
	}
	return p.Transport.Publish(Topic(p.DCMID), data)
}

// Observe implements link.ExchangeObserver. Failures are logged.
func (p *Publisher) Observe(x *link.Exchange) {
	r := New(p.DCMID, p.Operator, x)
	if err := p.Publish(r); err != nil {
		glog.Warningf("publish report %s: %v", r.Id, err)
	}
}

// ReportHandler receives decoded reports.
type ReportHandler func(dcmID string, r *pb.ExchangeReport, err error)

// Subscribe subscribes reports of all DCMs on q.
func Subscribe(q *Queue, handler ReportHandler) error {
	token := q.Sub(Topic("+"), decodeWith(handler))
	token.Wait()
	return token.Error()
}

func decodeWith(handler ReportHandler) Handler {
	return func(topic string, payload []byte) {
		dcmID, err := ParseTopic(topic)
		if err != nil {
			handler("", nil, err)
			return
		}
		r, err := Decode(payload)
		handler(dcmID, r, err)
	}
}
