package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/griddledb/griddle-go/gologger"
	"github.com/griddledb/griddle-go/utils"
	"github.com/griddledb/griddle-go/wire"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
)

var (
	logger = gologger.NewLogger()

	validate = validator.New()

	// responses carrying raw column bytes terminate their JSON header here
	rawDelim = []byte("}\n")

	ErrMissingDelimiter = utils.PermError("could not parse read response: missing header delimiter")
)

type HTTPGateway struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPGateway speaks h2c (cleartext HTTP/2) like the server serves it.
func NewHTTPGateway(baseURL string) *HTTPGateway {
	hc := &http.Client{
		Transport: &http2.Transport{
			AllowHTTP: true,
			DialTLS: func(network, addr string, _ *tls.Config) (net.Conn, error) {
				return net.Dial(network, addr)
			},
		},
		Timeout: time.Second * time.Duration(utils.REQUEST_TIMEOUT_SEC),
	}
	return NewHTTPGatewayWithClient(baseURL, hc)
}

// NewHTTPGatewayWithClient uses the given HTTP client, e.g. an HTTP/1.1
// client for proxies that can't speak h2c.
func NewHTTPGatewayWithClient(baseURL string, hc *http.Client) *HTTPGateway {
	return &HTTPGateway{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Client:  hc,
	}
}

func (g *HTTPGateway) do(ctx context.Context, httpMethod, op string, reqBody any) ([]byte, error) {
	if err := validate.Struct(reqBody); err != nil {
		return nil, &ServerError{Op: op, StatusCode: http.StatusBadRequest, Message: err.Error()}
	}

	jsonBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("error in json.Marshal: %w", err)
	}

	reqID, _ := ctx.Value(gologger.ReqIDKey).(string)
	if reqID == "" {
		reqID = utils.GenRandomShortID()
	}
	req, err := http.NewRequestWithContext(ctx, httpMethod, g.BaseURL+"/"+op, bytes.NewReader(jsonBytes))
	if err != nil {
		return nil, fmt.Errorf("error in http.NewRequestWithContext: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", reqID)
	if utils.USERNAME != "" {
		req.SetBasicAuth(utils.USERNAME, utils.PASSWORD)
	}

	s := time.Now()
	resp, err := g.Client.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}

	zerolog.Ctx(ctx).Debug().Str("op", op).Str("reqID", reqID).Int("status", resp.StatusCode).Int64("latency_ns", int64(time.Since(s))).Int("bytes_in", len(body)).Msg("gateway call")

	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("server status %d: %s", resp.StatusCode, string(body))}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ServerError{Op: op, StatusCode: resp.StatusCode, Message: string(body)}
	}
	return body, nil
}

func (g *HTTPGateway) doJSON(ctx context.Context, httpMethod, op string, reqBody, respBody any) error {
	body, err := g.do(ctx, httpMethod, op, reqBody)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, respBody); err != nil {
		return fmt.Errorf("error in json.Unmarshal of %s response: %w", op, err)
	}
	return nil
}

// doJSONBytes handles the read responses that are a JSON header document
// terminated by "}\n" followed by the raw column bytes.
func (g *HTTPGateway) doJSONBytes(ctx context.Context, httpMethod, op string, reqBody, respBody any) ([]byte, error) {
	body, err := g.do(ctx, httpMethod, op, reqBody)
	if err != nil {
		return nil, err
	}
	i := bytes.Index(body, rawDelim)
	if i < 0 {
		return nil, ErrMissingDelimiter
	}
	if err := json.Unmarshal(body[:i+1], respBody); err != nil {
		return nil, fmt.Errorf("error in json.Unmarshal of %s response header: %w", op, err)
	}
	return body[i+len(rawDelim):], nil
}

func (g *HTTPGateway) CreateTable(ctx context.Context, req wire.CreateTableRequest) (wire.CreateTableResponse, error) {
	var resp wire.CreateTableResponse
	err := g.doJSON(ctx, http.MethodPost, "create_table", req, &resp)
	return resp, err
}

func (g *HTTPGateway) AlterTable(ctx context.Context, req wire.AlterTableRequest) (wire.AlterTableResponse, error) {
	var resp wire.AlterTableResponse
	err := g.doJSON(ctx, http.MethodPost, "alter_table", req, &resp)
	return resp, err
}

func (g *HTTPGateway) DropTable(ctx context.Context, req wire.DropTableRequest) (wire.DropTableResponse, error) {
	var resp wire.DropTableResponse
	err := g.doJSON(ctx, http.MethodPost, "drop_table", req, &resp)
	return resp, err
}

func (g *HTTPGateway) GetSchema(ctx context.Context, req wire.GetSchemaRequest) (wire.GetSchemaResponse, error) {
	var resp wire.GetSchemaResponse
	err := g.doJSON(ctx, http.MethodGet, "get_schema", req, &resp)
	return resp, err
}

func (g *HTTPGateway) ListTables(ctx context.Context, req wire.ListTablesRequest) (wire.ListTablesResponse, error) {
	var resp wire.ListTablesResponse
	err := g.doJSON(ctx, http.MethodGet, "list_tables", req, &resp)
	return resp, err
}

func (g *HTTPGateway) ListSegments(ctx context.Context, req wire.ListSegmentsRequest) (wire.ListSegmentsResponse, error) {
	var resp wire.ListSegmentsResponse
	err := g.doJSON(ctx, http.MethodGet, "list_segments", req, &resp)
	return resp, err
}

func (g *HTTPGateway) WriteToPartition(ctx context.Context, req wire.WriteToPartitionRequest) (wire.WriteToPartitionResponse, error) {
	var resp wire.WriteToPartitionResponse
	err := g.doJSON(ctx, http.MethodPost, "write_to_partition", req, &resp)
	return resp, err
}

func (g *HTTPGateway) DeleteFromSegment(ctx context.Context, req wire.DeleteFromSegmentRequest) (wire.DeleteFromSegmentResponse, error) {
	var resp wire.DeleteFromSegmentResponse
	err := g.doJSON(ctx, http.MethodPost, "delete_from_segment", req, &resp)
	return resp, err
}

func (g *HTTPGateway) ReadSegmentDeletions(ctx context.Context, req wire.ReadSegmentDeletionsRequest) (wire.ReadSegmentDeletionsResponse, error) {
	var resp wire.ReadSegmentDeletionsResponse
	data, err := g.doJSONBytes(ctx, http.MethodGet, "read_segment_deletions", req, &resp)
	if err != nil {
		return resp, err
	}
	resp.Data = data
	return resp, nil
}

func (g *HTTPGateway) ReadSegmentColumn(ctx context.Context, req wire.ReadSegmentColumnRequest) (wire.ReadSegmentColumnResponse, error) {
	var resp wire.ReadSegmentColumnResponse
	data, err := g.doJSONBytes(ctx, http.MethodGet, "read_segment_column", req, &resp)
	if err != nil {
		return resp, err
	}
	resp.Data = data
	return resp, nil
}

var _ Gateway = (*HTTPGateway)(nil)
