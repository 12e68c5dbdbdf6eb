// Package models defines the CRPT document payload, the submission journal
// record, service configuration, and the request/response types of the relay
// API.
package models

import (
	"errors"
	"fmt"
)

// Document type constants accepted by the CRPT documents/create endpoint.
const (
	DocTypeIntroduceGoods = "LP_INTRODUCE_GOODS"
)

// Document is the body of a CRPT goods-introduction document. Field naming
// on the wire is snake_case, as required by the CRPT API.
type Document struct {
	Description    string    `json:"description,omitempty"`
	DocID          string    `json:"doc_id"`
	DocStatus      string    `json:"doc_status,omitempty"`
	DocType        string    `json:"doc_type"`
	ImportRequest  bool      `json:"import_request"`
	OwnerInn       string    `json:"owner_inn"`
	ParticipantInn string    `json:"participant_inn,omitempty"`
	ProducerInn    string    `json:"producer_inn,omitempty"`
	ProductionDate string    `json:"production_date,omitempty"`
	ProductionType string    `json:"production_type,omitempty"`
	Products       []Product `json:"products,omitempty"`
	RegDate        string    `json:"reg_date,omitempty"`
	RegNumber      string    `json:"reg_number,omitempty"`
}

// Product is one marked item inside a document.
type Product struct {
	CertificateDocument       string `json:"certificate_document,omitempty"`
	CertificateDocumentDate   string `json:"certificate_document_date,omitempty"`
	CertificateDocumentNumber string `json:"certificate_document_number,omitempty"`
	OwnerInn                  string `json:"owner_inn,omitempty"`
	ProducerInn               string `json:"producer_inn,omitempty"`
	ProductionDate            string `json:"production_date,omitempty"`
	TnvedCode                 string `json:"tnved_code,omitempty"`
	UitCode                   string `json:"uit_code,omitempty"`
	UituCode                  string `json:"uitu_code,omitempty"`
}

// Validate checks the fields the relay requires before spending a rate-limit
// slot on the document. The CRPT API performs its own full validation.
func (d *Document) Validate() error {
	if d == nil {
		return errors.New("document is required")
	}
	if d.DocID == "" {
		return errors.New("doc_id is required")
	}
	if d.DocType == "" {
		return errors.New("doc_type is required")
	}
	if d.OwnerInn == "" {
		return errors.New("owner_inn is required")
	}
	for i, p := range d.Products {
		if p.UitCode == "" && p.UituCode == "" {
			return fmt.Errorf("products[%d]: either uit_code or uitu_code is required", i)
		}
	}
	return nil
}
