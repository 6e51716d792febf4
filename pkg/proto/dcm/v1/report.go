// Package v1 contains protobuf messages of DCM reports, see report.proto.
package v1

import "github.com/golang/protobuf/proto"

// ExchangeReport records one request/response exchange with a device.
type ExchangeReport struct {
	Id          string `protobuf:"bytes,1,opt,name=id,proto3" json:"id,omitempty"`
	DcmId       string `protobuf:"bytes,2,opt,name=dcm_id,json=dcmId,proto3" json:"dcm_id,omitempty"`
	Operator    string `protobuf:"bytes,3,opt,name=operator,proto3" json:"operator,omitempty"`
	Port        string `protobuf:"bytes,4,opt,name=port,proto3" json:"port,omitempty"`
	Function    string `protobuf:"bytes,5,opt,name=function,proto3" json:"function,omitempty"`
	Mode        string `protobuf:"bytes,6,opt,name=mode,proto3" json:"mode,omitempty"`
	Request     []byte `protobuf:"bytes,7,opt,name=request,proto3" json:"request,omitempty"`
	Response    []byte `protobuf:"bytes,8,opt,name=response,proto3" json:"response,omitempty"`
	Status      string `protobuf:"bytes,9,opt,name=status,proto3" json:"status,omitempty"`
	Error       string `protobuf:"bytes,10,opt,name=error,proto3" json:"error,omitempty"`
	TimestampMs int64  `protobuf:"varint,11,opt,name=timestamp_ms,json=timestampMs,proto3" json:"timestamp_ms,omitempty"`
	DurationUs  int64  `protobuf:"varint,12,opt,name=duration_us,json=durationUs,proto3" json:"duration_us,omitempty"`
}

// Reset implements proto.Message.
func (m *ExchangeReport) Reset() { *m = ExchangeReport{} }

// String implements proto.Message.
func (m *ExchangeReport) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*ExchangeReport) ProtoMessage() {}

func init() {
	proto.RegisterType((*ExchangeReport)(nil), "dcm.v1.ExchangeReport")
}
