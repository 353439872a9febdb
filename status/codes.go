// Package status carries the framer's closed error-code enumeration.
// It intentionally mirrors the shape of the teacher's http/status
// package (a hand-written enum plus a hand-written String method,
// not go:generate stringer) but the values named here are framing
// error codes, not HTTP response status codes.
package status

// Code is a framer error or warning identifier. The zero value,
// BalsaNoError, means no error has occurred.
type Code uint16

const (
	BalsaNoError Code = iota

	NoStatusLineInResponse
	NoRequestLineInRequest
	FailedToFindWsAfterResponseVersion
	FailedToFindWsAfterRequestMethod
	FailedToFindWsAfterResponseStatuscode
	FailedToFindWsAfterRequestRequestUri
	FailedToFindNlAfterResponseReasonPhrase
	FailedToFindNlAfterRequestHttpVersion
	FailedConvertingStatusCodeToInt

	HeadersTooLong
	UnparsableContentLength
	MaybeBodyButNoContentLength
	RequiredBodyButNoContentLength

	HeaderMissingColon
	InvalidHeaderFormat
	InvalidHeaderCharacter
	InvalidHeaderNameCharacter

	InvalidChunkLength
	ChunkLengthOverflow
	InvalidChunkExtension

	CalledBytesSplicedWhenUnsafeToDoSo
	CalledBytesSplicedAndExceededSafeSpliceAmount

	MultipleContentLengthKeys
	MultipleTransferEncodingKeys
	UnknownTransferEncoding

	InvalidTrailerFormat
	InvalidTrailerNameCharacter
	TrailerTooLong
	TrailerMissingColon

	InternalLogicError
)

var names = [...]string{
	BalsaNoError:                                   "BALSA_NO_ERROR",
	NoStatusLineInResponse:                         "NO_STATUS_LINE_IN_RESPONSE",
	NoRequestLineInRequest:                         "NO_REQUEST_LINE_IN_REQUEST",
	FailedToFindWsAfterResponseVersion:             "FAILED_TO_FIND_WS_AFTER_RESPONSE_VERSION",
	FailedToFindWsAfterRequestMethod:               "FAILED_TO_FIND_WS_AFTER_REQUEST_METHOD",
	FailedToFindWsAfterResponseStatuscode:          "FAILED_TO_FIND_WS_AFTER_RESPONSE_STATUSCODE",
	FailedToFindWsAfterRequestRequestUri:           "FAILED_TO_FIND_WS_AFTER_REQUEST_REQUEST_URI",
	FailedToFindNlAfterResponseReasonPhrase:        "FAILED_TO_FIND_NL_AFTER_RESPONSE_REASON_PHRASE",
	FailedToFindNlAfterRequestHttpVersion:          "FAILED_TO_FIND_NL_AFTER_REQUEST_HTTP_VERSION",
	FailedConvertingStatusCodeToInt:                "FAILED_CONVERTING_STATUS_CODE_TO_INT",
	HeadersTooLong:                                 "HEADERS_TOO_LONG",
	UnparsableContentLength:                        "UNPARSABLE_CONTENT_LENGTH",
	MaybeBodyButNoContentLength:                    "MAYBE_BODY_BUT_NO_CONTENT_LENGTH",
	RequiredBodyButNoContentLength:                 "REQUIRED_BODY_BUT_NO_CONTENT_LENGTH",
	HeaderMissingColon:                             "HEADER_MISSING_COLON",
	InvalidHeaderFormat:                            "INVALID_HEADER_FORMAT",
	InvalidHeaderCharacter:                         "INVALID_HEADER_CHARACTER",
	InvalidHeaderNameCharacter:                     "INVALID_HEADER_NAME_CHARACTER",
	InvalidChunkLength:                             "INVALID_CHUNK_LENGTH",
	ChunkLengthOverflow:                            "CHUNK_LENGTH_OVERFLOW",
	InvalidChunkExtension:                          "INVALID_CHUNK_EXTENSION",
	CalledBytesSplicedWhenUnsafeToDoSo:              "CALLED_BYTES_SPLICED_WHEN_UNSAFE_TO_DO_SO",
	CalledBytesSplicedAndExceededSafeSpliceAmount:  "CALLED_BYTES_SPLICED_AND_EXCEEDED_SAFE_SPLICE_AMOUNT",
	MultipleContentLengthKeys:                      "MULTIPLE_CONTENT_LENGTH_KEYS",
	MultipleTransferEncodingKeys:                   "MULTIPLE_TRANSFER_ENCODING_KEYS",
	UnknownTransferEncoding:                        "UNKNOWN_TRANSFER_ENCODING",
	InvalidTrailerFormat:                           "INVALID_TRAILER_FORMAT",
	InvalidTrailerNameCharacter:                    "INVALID_TRAILER_NAME_CHARACTER",
	TrailerTooLong:                                 "TRAILER_TOO_LONG",
	TrailerMissingColon:                            "TRAILER_MISSING_COLON",
	InternalLogicError:                             "INTERNAL_LOGIC_ERROR",
}

// String returns the stable identifier used in logs and test failure
// messages. Unrecognized codes render as UNKNOWN_ERROR rather than
// panicking, since this is called from error-reporting paths.
func (c Code) String() string {
	if int(c) < len(names) && names[c] != "" {
		return names[c]
	}

	return "UNKNOWN_ERROR"
}
