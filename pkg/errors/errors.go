package errors

import (
	"encoding/json"
	"fmt"
	"strconv"

	log "github.com/sirupsen/logrus"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	grpccodes "google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const errorDomain = "fvmbridge"

// Code is the type representing a namespace error code.
type Code[MT any] struct {
	Code     uint16
	Name     string
	GrpcCode grpccodes.Code
}

// New creates a new error with the given code and the message
func (c Code[MT]) New(msg string, args ...any) TypedError[MT] {
	return &ErrorImpl[MT]{
		code:  c,
		cause: fmt.Errorf(msg, args...),
	}
}

// Wrap creates a new Error with the given code and the cause error
func (c Code[MT]) Wrap(cause error) TypedError[MT] {
	return &ErrorImpl[MT]{
		code:  c,
		cause: cause,
	}
}

func (c Code[MT]) String() string {
	return fmt.Sprintf("%s (%d)", c.Name, c.Code)
}

type Error interface {
	error
	Log() *log.Entry
	Code() uint16
	CodeName() string
	GrpcCode() grpccodes.Code
	Metadata() map[string]string
}

type TypedError[MT any] interface {
	Error
	WithMetadata(MT) TypedError[MT]
}

// ErrorImpl is the default concrete implementation of TypedError.
type ErrorImpl[MT any] struct {
	code     Code[MT]
	cause    error
	metadata MT
}

func (e *ErrorImpl[MT]) Log() *log.Entry {
	return log.WithField("name", e.code.Name).
		WithField("code", e.code.Code).
		WithField("metadata", e.metadata)
}

func (e *ErrorImpl[MT]) Metadata() map[string]string {
	// convert any metadata to map[string]string
	metadata := make(map[string]string)
	buf, err := json.Marshal(e.metadata)
	if err == nil {
		var genericMap map[string]any
		if err := json.Unmarshal(buf, &genericMap); err == nil {
			for k, v := range genericMap {
				vStr := ""
				if v != nil {
					vStr = fmt.Sprintf("%v", v)
				}
				metadata[k] = vStr
			}
		}
	}
	return metadata
}

func (e *ErrorImpl[MT]) GrpcCode() grpccodes.Code {
	return e.code.GrpcCode
}

func (e *ErrorImpl[MT]) Code() uint16 {
	return e.code.Code
}

func (e *ErrorImpl[MT]) CodeName() string {
	return e.code.Name
}

// GRPCStatus attaches the code name and the metadata to the status as ErrorInfo details.
func (e *ErrorImpl[MT]) GRPCStatus() *status.Status {
	st := status.New(e.code.GrpcCode, e.Error())

	metadata := e.Metadata()
	metadata["code"] = strconv.Itoa(int(e.code.Code))

	stWithDetails, err := st.WithDetails(&errdetails.ErrorInfo{
		Reason:   e.code.Name,
		Domain:   errorDomain,
		Metadata: metadata,
	})
	if err != nil {
		return st
	}
	return stWithDetails
}

// Error() implements the error interface.
func (e *ErrorImpl[MT]) Error() string {
	return fmt.Sprintf("%s: %s", e.code.String(), e.cause.Error())
}

func (e *ErrorImpl[MT]) Unwrap() error {
	return e.cause
}

func (e *ErrorImpl[MT]) WithMetadata(metadata MT) TypedError[MT] {
	e.metadata = metadata
	return e
}

type CoinMetadata struct {
	CoinId string `json:"coin_id"`
}

type DepositValueMetadata struct {
	Value string `json:"value"`
}

type InsufficientBalanceMetadata struct {
	Address string `json:"address"`
	Balance string `json:"balance"`
	Value   string `json:"value"`
}

type AssetMismatchMetadata struct {
	CoinId        string `json:"coin_id"`
	AssetId       string `json:"asset_id"`
	ExpectedAsset string `json:"expected_asset"`
}

type OwnerMismatchMetadata struct {
	CoinId        string `json:"coin_id"`
	Owner         string `json:"owner"`
	ExpectedOwner string `json:"expected_owner"`
}

type InsufficientCoinTotalMetadata struct {
	Total     uint64 `json:"total"`
	Requested uint64 `json:"requested"`
}

type EscrowCallerMetadata struct {
	Escrow string `json:"escrow"`
}

type MalformedMessageMetadata struct {
	Selector string `json:"selector"`
	Message  string `json:"message"`
}

var INTERNAL_ERROR = Code[map[string]any]{0, "INTERNAL_ERROR", grpccodes.Internal}

var INSUFFICIENT_BALANCE = Code[InsufficientBalanceMetadata]{
	1,
	"INSUFFICIENT_BALANCE",
	grpccodes.FailedPrecondition,
}
var ZERO_DEPOSIT = Code[DepositValueMetadata]{2, "ZERO_DEPOSIT", grpccodes.InvalidArgument}

var INEXACT_CONVERSION = Code[DepositValueMetadata]{
	3,
	"INEXACT_CONVERSION",
	grpccodes.InvalidArgument,
}
var AMOUNT_OVERFLOW = Code[DepositValueMetadata]{4, "AMOUNT_OVERFLOW", grpccodes.InvalidArgument}
var EMPTY_COIN_LIST = Code[any]{5, "EMPTY_COIN_LIST", grpccodes.InvalidArgument}
var DUPLICATE_COIN_ID = Code[CoinMetadata]{6, "DUPLICATE_COIN_ID", grpccodes.InvalidArgument}
var COIN_NOT_FOUND = Code[CoinMetadata]{7, "COIN_NOT_FOUND", grpccodes.NotFound}
var ASSET_MISMATCH = Code[AssetMismatchMetadata]{8, "ASSET_MISMATCH", grpccodes.InvalidArgument}
var OWNER_MISMATCH = Code[OwnerMismatchMetadata]{9, "OWNER_MISMATCH", grpccodes.InvalidArgument}

var INSUFFICIENT_COIN_TOTAL = Code[InsufficientCoinTotalMetadata]{
	10,
	"INSUFFICIENT_COIN_TOTAL",
	grpccodes.FailedPrecondition,
}
var COIN_ID_COLLISION = Code[CoinMetadata]{11, "COIN_ID_COLLISION", grpccodes.AlreadyExists}
var STORE_FAILURE = Code[map[string]any]{12, "STORE_FAILURE", grpccodes.Internal}

var MALFORMED_MESSAGE = Code[MalformedMessageMetadata]{
	13,
	"MALFORMED_MESSAGE",
	grpccodes.InvalidArgument,
}
var EXECUTION_FAILED = Code[map[string]any]{14, "EXECUTION_FAILED", grpccodes.Unavailable}
var ESCROW_CALLER = Code[EscrowCallerMetadata]{15, "ESCROW_CALLER", grpccodes.PermissionDenied}
