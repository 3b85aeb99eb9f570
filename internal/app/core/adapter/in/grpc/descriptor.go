package grpc

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/known/timestamppb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// protoPackage proto package，ServiceName 也以此為前綴
const protoPackage = "remittance.v1"

// File remittance/v1/remittance.proto 的描述
//
// 沒有 protoc 產生的程式碼，訊息在這裡以 descriptorpb 宣告，
// 執行期以 dynamicpb 承載，線上格式與一般 protobuf 服務相同。
// init 時註冊到 protoregistry.GlobalFiles，gRPC reflection 可直接列出服務。
var File protoreflect.FileDescriptor

func init() {
	fd, err := protodesc.NewFile(fileDescriptorProto(), protoregistry.GlobalFiles)
	if err != nil {
		panic(fmt.Sprintf("build %s: %v", protoPackage, err))
	}
	if err := protoregistry.GlobalFiles.RegisterFile(fd); err != nil {
		panic(fmt.Sprintf("register %s: %v", protoPackage, err))
	}
	File = fd
}

func fileDescriptorProto() *descriptorpb.FileDescriptorProto {
	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String("remittance/v1/remittance.proto"),
		Package: proto.String(protoPackage),
		Syntax:  proto.String("proto3"),
		Dependency: []string{
			timestamppb.File_google_protobuf_timestamp_proto.Path(),
			wrapperspb.File_google_protobuf_wrappers_proto.Path(),
		},
		MessageType: []*descriptorpb.DescriptorProto{
			messageType("CreateAccountRequest",
				scalarField("account_no", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			),
			messageType("CreateAccountResponse",
				scalarField("account_id", 1, descriptorpb.FieldDescriptorProto_TYPE_INT64),
				scalarField("account_no", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			),
			messageType("AccountRequest",
				scalarField("account_no", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			),
			messageType("DeleteAccountResponse"),
			messageType("AccountResponse",
				scalarField("account_id", 1, descriptorpb.FieldDescriptorProto_TYPE_INT64),
				scalarField("account_no", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				scalarField("status", 3, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				scalarField("balance", 4, descriptorpb.FieldDescriptorProto_TYPE_INT64),
			),
			messageType("AmountRequest",
				scalarField("account_no", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				scalarField("amount", 2, descriptorpb.FieldDescriptorProto_TYPE_INT64),
			),
			messageType("BalanceResponse",
				scalarField("account_id", 1, descriptorpb.FieldDescriptorProto_TYPE_INT64),
				scalarField("account_no", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				scalarField("balance", 3, descriptorpb.FieldDescriptorProto_TYPE_INT64),
			),
			messageType("RemitRequest",
				scalarField("from_account_no", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				scalarField("to_account_no", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				scalarField("amount", 3, descriptorpb.FieldDescriptorProto_TYPE_INT64),
			),
			messageType("RemitResponse",
				scalarField("from_account_id", 1, descriptorpb.FieldDescriptorProto_TYPE_INT64),
				scalarField("from_account_no", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				scalarField("to_account_id", 3, descriptorpb.FieldDescriptorProto_TYPE_INT64),
				scalarField("to_account_no", 4, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				scalarField("amount", 5, descriptorpb.FieldDescriptorProto_TYPE_INT64),
				scalarField("fee", 6, descriptorpb.FieldDescriptorProto_TYPE_INT64),
				scalarField("from_balance", 7, descriptorpb.FieldDescriptorProto_TYPE_INT64),
				scalarField("to_balance", 8, descriptorpb.FieldDescriptorProto_TYPE_INT64),
			),
			messageType("ListTransactionsRequest",
				scalarField("account_no", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				scalarField("size", 2, descriptorpb.FieldDescriptorProto_TYPE_INT32),
			),
			messageType("LedgerEntry",
				scalarField("id", 1, descriptorpb.FieldDescriptorProto_TYPE_INT64),
				scalarField("account_id", 2, descriptorpb.FieldDescriptorProto_TYPE_INT64),
				messageField("counterparty_account_id", 3, ".google.protobuf.Int64Value"),
				scalarField("type", 4, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				scalarField("amount", 5, descriptorpb.FieldDescriptorProto_TYPE_INT64),
				scalarField("fee_amount", 6, descriptorpb.FieldDescriptorProto_TYPE_INT64),
				scalarField("balance_after", 7, descriptorpb.FieldDescriptorProto_TYPE_INT64),
				messageField("occurred_at", 8, ".google.protobuf.Timestamp"),
				scalarField("ref_id", 9, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			),
			messageType("ListTransactionsResponse",
				repeatedField(messageField("entries", 1, "."+protoPackage+".LedgerEntry")),
			),
		},
		Service: []*descriptorpb.ServiceDescriptorProto{{
			Name: proto.String("RemittanceService"),
			Method: []*descriptorpb.MethodDescriptorProto{
				rpcMethod(methodCreateAccount, "CreateAccountRequest", "CreateAccountResponse"),
				rpcMethod(methodDeleteAccount, "AccountRequest", "DeleteAccountResponse"),
				rpcMethod(methodGetAccount, "AccountRequest", "AccountResponse"),
				rpcMethod(methodDeposit, "AmountRequest", "BalanceResponse"),
				rpcMethod(methodWithdraw, "AmountRequest", "BalanceResponse"),
				rpcMethod(methodRemit, "RemitRequest", "RemitResponse"),
				rpcMethod(methodListTransactions, "ListTransactionsRequest", "ListTransactionsResponse"),
			},
		}},
	}
}

func messageType(name string, fields ...*descriptorpb.FieldDescriptorProto) *descriptorpb.DescriptorProto {
	return &descriptorpb.DescriptorProto{
		Name:  proto.String(name),
		Field: fields,
	}
}

func scalarField(name string, number int32, typ descriptorpb.FieldDescriptorProto_Type) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(number),
		Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:   typ.Enum(),
	}
}

// messageField typeName 為完整名稱，例如 ".google.protobuf.Timestamp"
func messageField(name string, number int32, typeName string) *descriptorpb.FieldDescriptorProto {
	field := scalarField(name, number, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE)
	field.TypeName = proto.String(typeName)
	return field
}

func repeatedField(field *descriptorpb.FieldDescriptorProto) *descriptorpb.FieldDescriptorProto {
	field.Label = descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum()
	return field
}

func rpcMethod(name, input, output string) *descriptorpb.MethodDescriptorProto {
	return &descriptorpb.MethodDescriptorProto{
		Name:       proto.String(name),
		InputType:  proto.String("." + protoPackage + "." + input),
		OutputType: proto.String("." + protoPackage + "." + output),
	}
}
