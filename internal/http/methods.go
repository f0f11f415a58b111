package http

import "contas/internal/core"

// methodDisplayNames maps wire identifiers to human-readable labels.
// The mapping lives at the presentation boundary; everything below it
// works with the identifiers only.
var methodDisplayNames = map[core.PaymentMethod]string{
	core.MethodCash:            "Cash",
	core.MethodCredit:          "Credit card",
	core.MethodDebit:           "Debit card",
	core.MethodBankSlip:        "Bank slip",
	core.MethodInstantTransfer: "Instant transfer",
	core.MethodWireTransfer:    "Wire transfer",
}

type methodOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

func methodOptions() []methodOption {
	methods := core.PaymentMethods()
	opts := make([]methodOption, 0, len(methods))
	for _, m := range methods {
		opts = append(opts, methodOption{Value: string(m), Label: methodDisplayNames[m]})
	}
	return opts
}
