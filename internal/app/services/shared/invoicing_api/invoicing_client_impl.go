// Package invoicing_api implements the invoicing SaaS client over its
// Fatture in Cloud style REST surface.
package invoicing_api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"clinicpay-service/internal/app/config"
	"clinicpay-service/internal/app/contracts"
	"clinicpay-service/internal/pkg/constvars"
	"clinicpay-service/internal/pkg/exceptions"
	"clinicpay-service/internal/pkg/fic_dto"
	"clinicpay-service/internal/pkg/utils"

	"go.uber.org/zap"
)

var (
	invoicingClientInstance contracts.InvoicingClient
	onceInvoicingClient     sync.Once
)

type invoicingClient struct {
	BaseUrl     string
	AccessToken string
	CompanyID   string
	HTTPClient  *http.Client
	Log         *zap.Logger
}

func NewInvoicingClient(internalConfig *config.InternalConfig, logger *zap.Logger) contracts.InvoicingClient {
	onceInvoicingClient.Do(func() {
		client := &invoicingClient{
			BaseUrl:     internalConfig.Invoicing.BaseURL,
			AccessToken: internalConfig.Invoicing.AccessToken,
			CompanyID:   internalConfig.Invoicing.CompanyID,
			HTTPClient: &http.Client{
				Timeout: time.Duration(internalConfig.Invoicing.RequestTimeoutInSeconds) * time.Second,
			},
			Log: logger,
		}
		invoicingClientInstance = client
	})
	return invoicingClientInstance
}

func (c *invoicingClient) FindClientByEmail(ctx context.Context, email string) (*fic_dto.Client, error) {
	return c.findClient(ctx, fmt.Sprintf("email = '%s'", email))
}

func (c *invoicingClient) FindClientByTaxCode(ctx context.Context, taxCode string) (*fic_dto.Client, error) {
	return c.findClient(ctx, fmt.Sprintf("tax_code = '%s'", taxCode))
}

func (c *invoicingClient) findClient(ctx context.Context, query string) (*fic_dto.Client, error) {
	requestID := utils.GetRequestID(ctx)
	c.Log.Info("invoicingClient.findClient called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	endpoint := fmt.Sprintf("%s/c/%s/entities/clients?q=%s", c.BaseUrl, c.CompanyID, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, constvars.MethodGet, endpoint, nil)
	if err != nil {
		c.Log.Error("invoicingClient.findClient error creating HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	c.authorize(req)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.Log.Error("invoicingClient.findClient error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusOK {
		err := c.readAPIError(resp)
		c.Log.Error("invoicingClient.findClient API error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrInvoicingSearchClient(err)
	}

	var envelope fic_dto.ClientListEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		c.Log.Error("invoicingClient.findClient error decoding response",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrInvoicingDecodeResponse(err)
	}

	if len(envelope.Data) == 0 {
		return nil, nil
	}
	found := envelope.Data[0]
	c.Log.Info("invoicingClient.findClient found client",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingClientIDKey, found.ID),
	)
	return &found, nil
}

func (c *invoicingClient) CreateClient(ctx context.Context, client *fic_dto.Client) (*fic_dto.Client, error) {
	requestID := utils.GetRequestID(ctx)
	c.Log.Info("invoicingClient.CreateClient called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	endpoint := fmt.Sprintf("%s/c/%s/entities/clients", c.BaseUrl, c.CompanyID)
	created, err := c.writeClient(ctx, constvars.MethodPost, endpoint, client)
	if err != nil {
		c.Log.Error("invoicingClient.CreateClient failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrInvoicingCreateClient(err)
	}
	c.Log.Info("invoicingClient.CreateClient succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingClientIDKey, created.ID),
	)
	return created, nil
}

func (c *invoicingClient) UpdateClient(ctx context.Context, client *fic_dto.Client) (*fic_dto.Client, error) {
	requestID := utils.GetRequestID(ctx)
	c.Log.Info("invoicingClient.UpdateClient called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingClientIDKey, client.ID),
	)

	endpoint := fmt.Sprintf("%s/c/%s/entities/clients/%d", c.BaseUrl, c.CompanyID, client.ID)
	updated, err := c.writeClient(ctx, constvars.MethodPut, endpoint, client)
	if err != nil {
		c.Log.Error("invoicingClient.UpdateClient failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int64(constvars.LoggingClientIDKey, client.ID),
			zap.Error(err),
		)
		return nil, exceptions.ErrInvoicingUpdateClient(err)
	}
	return updated, nil
}

func (c *invoicingClient) writeClient(ctx context.Context, method, endpoint string, client *fic_dto.Client) (*fic_dto.Client, error) {
	requestJSON, err := json.Marshal(fic_dto.ClientEnvelope{Data: *client})
	if err != nil {
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewBuffer(requestJSON))
	if err != nil {
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	c.authorize(req)
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusOK && resp.StatusCode != constvars.StatusCreated {
		return nil, c.readAPIError(resp)
	}

	var envelope fic_dto.ClientEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, exceptions.ErrInvoicingDecodeResponse(err)
	}
	return &envelope.Data, nil
}

func (c *invoicingClient) CreateInvoice(ctx context.Context, invoice *fic_dto.Invoice) (int64, error) {
	requestID := utils.GetRequestID(ctx)
	c.Log.Info("invoicingClient.CreateInvoice called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	requestJSON, err := json.Marshal(fic_dto.InvoiceEnvelope{Data: *invoice})
	if err != nil {
		return 0, exceptions.ErrCannotMarshalJSON(err)
	}

	endpoint := fmt.Sprintf("%s/c/%s/issued_documents", c.BaseUrl, c.CompanyID)
	req, err := http.NewRequestWithContext(ctx, constvars.MethodPost, endpoint, bytes.NewBuffer(requestJSON))
	if err != nil {
		c.Log.Error("invoicingClient.CreateInvoice error creating HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return 0, exceptions.ErrCreateHTTPRequest(err)
	}
	c.authorize(req)
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.Log.Error("invoicingClient.CreateInvoice error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return 0, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusOK && resp.StatusCode != constvars.StatusCreated {
		err := c.readAPIError(resp)
		c.Log.Error("invoicingClient.CreateInvoice API error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return 0, exceptions.ErrInvoiceSubmit(err)
	}

	var envelope fic_dto.IssuedDocumentEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		c.Log.Error("invoicingClient.CreateInvoice error decoding response",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return 0, exceptions.ErrInvoicingDecodeResponse(err)
	}

	c.Log.Info("invoicingClient.CreateInvoice succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingInvoiceIDKey, envelope.Data.ID),
	)
	return envelope.Data.ID, nil
}

func (c *invoicingClient) authorize(req *http.Request) {
	req.Header.Set(constvars.HeaderAuthorization, "Bearer "+c.AccessToken)
}

func (c *invoicingClient) readAPIError(resp *http.Response) error {
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	var apiErr fic_dto.APIError
	if err := json.Unmarshal(bodyBytes, &apiErr); err != nil || apiErr.Error.Message == "" {
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(bodyBytes))
	}
	return fmt.Errorf("status %d: %s", resp.StatusCode, apiErr.Error.Message)
}
