// Package chain classifies raw transactions from the Stacks chain API.
// The API returns loosely-typed JSON; parsing happens once here, at the
// boundary, into a closed set of variants instead of ad hoc optional
// field probing downstream.
package chain

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Kind is the closed set of recognized transaction variants.
type Kind string

const (
	KindTransfer           Kind = "transfer"
	KindBatchPayroll       Kind = "batch-payroll"
	KindOneTimePayment     Kind = "one-time-payment"
	KindRegistration       Kind = "registration"
	KindOrganizationSetup  Kind = "organization-setup"
	KindContractCall       Kind = "contract-call"
	KindContractDeployment Kind = "contract-deployment"
	KindUnknown            Kind = "unknown"
)

// microUnitsPerToken converts microSTX amounts to STX.
const microUnitsPerToken = 1_000_000

// Direction of a transaction relative to the wallet being viewed.
type Direction int

const (
	Sent Direction = iota
	Received
)

// rawTx is the subset of the chain API payload the classifier reads.
type rawTx struct {
	TxID          string         `json:"tx_id"`
	TxType        string         `json:"tx_type"`
	TxStatus      string         `json:"tx_status"`
	Sent          json.Number    `json:"stx_sent"`
	Received      json.Number    `json:"stx_received"`
	TokenTransfer *tokenTransfer `json:"token_transfer"`
	ContractCall  *contractCall  `json:"contract_call"`
}

type tokenTransfer struct {
	Amount json.Number `json:"amount"`
}

type contractCall struct {
	FunctionName string        `json:"function_name"`
	FunctionArgs []functionArg `json:"function_args"`
}

type functionArg struct {
	Name string `json:"name"`
	Repr string `json:"repr"`
}

// Transaction is the classified result.
type Transaction struct {
	TxID   string  `json:"tx_id"`
	Kind   Kind    `json:"kind"`
	Status string  `json:"status"`
	Amount float64 `json:"amount"`
}

// Parse classifies one raw transaction payload. dir selects which
// explicit amount field (sent or received) takes priority.
func Parse(raw []byte, dir Direction) (Transaction, error) {
	var tx rawTx
	if err := json.Unmarshal(raw, &tx); err != nil {
		return Transaction{}, err
	}
	return Transaction{
		TxID:   tx.TxID,
		Kind:   classify(tx),
		Status: normalizeStatus(tx.TxStatus),
		Amount: amount(tx, dir),
	}, nil
}

func classify(tx rawTx) Kind {
	switch tx.TxType {
	case "token_transfer":
		return KindTransfer
	case "smart_contract":
		return KindContractDeployment
	case "contract_call":
		if tx.ContractCall == nil {
			return KindContractCall
		}
		switch tx.ContractCall.FunctionName {
		case "execute-batch-payroll":
			return KindBatchPayroll
		case "execute-payroll":
			return KindOneTimePayment
		case "register-business":
			return KindRegistration
		case "create-organization":
			return KindOrganizationSetup
		default:
			return KindContractCall
		}
	default:
		return KindUnknown
	}
}

// amount extracts the transaction amount in whole tokens using a fixed
// priority order: the explicit sent/received field, then the
// token-transfer amount, then the first uint function argument, then
// zero.
func amount(tx rawTx, dir Direction) float64 {
	explicit := tx.Received
	if dir == Sent {
		explicit = tx.Sent
	}
	if explicit != "" {
		if v, err := explicit.Float64(); err == nil && v != 0 {
			return v / microUnitsPerToken
		}
	}

	if tx.TokenTransfer != nil {
		if v, err := tx.TokenTransfer.Amount.Float64(); err == nil {
			return v / microUnitsPerToken
		}
	}

	if tx.ContractCall != nil {
		for _, arg := range tx.ContractCall.FunctionArgs {
			// Clarity uints print as "u12345"; principals and buffers don't.
			if !strings.HasPrefix(arg.Repr, "u") || strings.HasPrefix(arg.Repr, "0x") {
				continue
			}
			v, err := strconv.ParseUint(arg.Repr[1:], 10, 64)
			if err != nil {
				continue
			}
			return float64(v) / microUnitsPerToken
		}
	}

	return 0
}

func normalizeStatus(s string) string {
	switch s {
	case "success":
		return "success"
	case "pending", "":
		return "pending"
	default:
		// abort_by_response, abort_by_post_condition, dropped_*
		return "failed"
	}
}
