package grpc

import (
	"time"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
	"google.golang.org/protobuf/types/known/timestamppb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// wireMessage 可與 File 中同名 protobuf 訊息互轉的結構
type wireMessage interface {
	messageName() protoreflect.Name
	marshalProto(f fields)
	unmarshalProto(f fields)
}

// wirePtr 讓泛型函式可以 new(T) 後當作 wireMessage 使用
type wirePtr[T any] interface {
	*T
	wireMessage
}

// newMessage 建立 w 對應的空白 protobuf 訊息，供 grpc proto codec 解碼
func newMessage(w wireMessage) *dynamicpb.Message {
	return dynamicpb.NewMessage(File.Messages().ByName(w.messageName()))
}

// toMessage 將 w 轉成 protobuf 訊息
func toMessage(w wireMessage) *dynamicpb.Message {
	m := newMessage(w)
	w.marshalProto(fields{m: m})
	return m
}

// fromMessage 將解碼後的 protobuf 訊息填回 w
func fromMessage(m protoreflect.ProtoMessage, w wireMessage) {
	w.unmarshalProto(fields{m: m.ProtoReflect()})
}

// fields 以 proto 欄位名稱讀寫訊息
type fields struct {
	m protoreflect.Message
}

func (f fields) field(name string) protoreflect.FieldDescriptor {
	return f.m.Descriptor().Fields().ByName(protoreflect.Name(name))
}

func (f fields) setString(name, v string) {
	f.m.Set(f.field(name), protoreflect.ValueOfString(v))
}

func (f fields) setInt64(name string, v int64) {
	f.m.Set(f.field(name), protoreflect.ValueOfInt64(v))
}

func (f fields) setInt32(name string, v int32) {
	f.m.Set(f.field(name), protoreflect.ValueOfInt32(v))
}

func (f fields) setTime(name string, v time.Time) {
	f.m.Set(f.field(name), protoreflect.ValueOfMessage(timestamppb.New(v).ProtoReflect()))
}

// setOptionalInt64 nil 時不設定，對方讀到的是 null 而不是 0
func (f fields) setOptionalInt64(name string, v *int64) {
	if v == nil {
		return
	}
	f.m.Set(f.field(name), protoreflect.ValueOfMessage(wrapperspb.Int64(*v).ProtoReflect()))
}

func (f fields) getString(name string) string {
	return f.m.Get(f.field(name)).String()
}

func (f fields) getInt64(name string) int64 {
	return f.m.Get(f.field(name)).Int()
}

func (f fields) getInt32(name string) int32 {
	return int32(f.m.Get(f.field(name)).Int())
}

func (f fields) getTime(name string) time.Time {
	fd := f.field(name)
	if !f.m.Has(fd) {
		return time.Time{}
	}
	ts := new(timestamppb.Timestamp)
	if !convert(f.m.Get(fd).Message(), ts) {
		return time.Time{}
	}
	return ts.AsTime()
}

func (f fields) getOptionalInt64(name string) *int64 {
	fd := f.field(name)
	if !f.m.Has(fd) {
		return nil
	}
	wrapped := new(wrapperspb.Int64Value)
	if !convert(f.m.Get(fd).Message(), wrapped) {
		return nil
	}
	v := wrapped.GetValue()
	return &v
}

// appendMessages 將 items 依序加入 repeated 訊息欄位
func appendMessages[T any, PT wirePtr[T]](f fields, name string, items []T) {
	list := f.m.Mutable(f.field(name)).List()
	for i := range items {
		elem := list.NewElement()
		PT(&items[i]).marshalProto(fields{m: elem.Message()})
		list.Append(elem)
	}
}

func getMessages[T any, PT wirePtr[T]](f fields, name string) []T {
	list := f.m.Get(f.field(name)).List()
	items := make([]T, list.Len())
	for i := range items {
		PT(&items[i]).unmarshalProto(fields{m: list.Get(i).Message()})
	}
	return items
}

// convert 巢狀訊息解碼後是 dynamicpb，經由 wire format 轉成具體型別
func convert(src protoreflect.Message, dst proto.Message) bool {
	b, err := proto.Marshal(src.Interface())
	if err != nil {
		return false
	}
	return proto.Unmarshal(b, dst) == nil
}
