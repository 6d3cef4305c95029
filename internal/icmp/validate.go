package icmp

// ValidateReply compares a parsed reply's fields against the request it
// answers and annotates the reply's per-field validity flags plus its
// overall IsValid. Header checksum validation is intentionally not
// performed; HeaderChecksumValid always reads false.
func ValidateReply(reply *ReplyView, req *EchoRequest) {
	reply.SequenceValid = reply.Sequence == req.Sequence
	reply.IdentifierValid = reply.Identifier == req.Identifier
	reply.PayloadValid = reply.EchoedPayload == req.Payload
	reply.TypeValid = reply.Type == TypeEchoReply
	reply.CodeValid = reply.Code == 0
	reply.HeaderChecksumValid = false

	reply.IsValid = reply.SequenceValid && reply.IdentifierValid &&
		reply.PayloadValid && reply.TypeValid && reply.CodeValid
}
