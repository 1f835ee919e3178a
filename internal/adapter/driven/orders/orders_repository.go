package orders

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/diillson/order-cohort-analytics-go/internal/domain/entity"
	"github.com/diillson/order-cohort-analytics-go/internal/domain/repository"
	"github.com/diillson/order-cohort-analytics-go/internal/shared/types"
)

const defaultHTTPTimeout = 30 * time.Second

// maxLineBytes limita o tamanho de uma linha JSON da fonte.
const maxLineBytes = 4 * 1024 * 1024

// timestampLayouts são os formatos aceitos para order_created_at.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// OrderRepositoryImpl implementa o OrderRepository para fontes JSON-lines
// comprimidas com gzip, servidas por HTTP(S), S3 ou arquivo local.
type OrderRepositoryImpl struct {
	httpClient *http.Client
	s3Client   *s3.Client
	mu         sync.Mutex
}

// NewOrderRepository cria uma nova implementação do OrderRepository.
func NewOrderRepository() repository.OrderRepository {
	return &OrderRepositoryImpl{}
}

// rawOrder é a forma de um registro da fonte antes da validação. Ponteiros e
// RawMessage distinguem campo ausente de valor zero; campos extras do
// registro (endereço de entrega, itens, plataforma de origem...) são
// ignorados silenciosamente.
type rawOrder struct {
	CustomerID       *string         `json:"customer_id"`
	OrderCreatedAt   *string         `json:"order_created_at"`
	OrderTotalAmount *float64        `json:"order_total_amount"`
	IsTarget         json.RawMessage `json:"is_target"`
	Active           json.RawMessage `json:"active"`
}

// LoadOrders faz o streaming da fonte linha a linha, filtrando pelo
// allowlist de clientes quando fornecido e interrompendo a leitura ao
// atingir MaxSample. Linhas que não são JSON válido são puladas e contadas;
// um registro sem coluna obrigatória interrompe a carga com erro.
func (r *OrderRepositoryImpl) LoadOrders(ctx context.Context, opts entity.LoadOptions) (*entity.OrderLoadResult, error) {
	body, err := r.openSource(ctx, opts)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	reader, err := maybeGunzip(body)
	if err != nil {
		return nil, fmt.Errorf("error opening source stream: %w", err)
	}

	result := &entity.OrderLoadResult{
		IngestionDate: time.Now().UTC().Format("2006-01-02"),
	}

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result.LinesRead++

		line := scanner.Bytes()
		if len(line) == 0 {
			result.LinesSkipped++
			continue
		}

		var raw rawOrder
		if err := json.Unmarshal(line, &raw); err != nil {
			result.LinesSkipped++
			continue
		}

		if raw.CustomerID == nil {
			return nil, &types.MissingFieldError{Field: "customer_id", Line: result.LinesRead}
		}
		if len(opts.CustomerIDs) > 0 {
			if _, ok := opts.CustomerIDs[*raw.CustomerID]; !ok {
				continue
			}
		}

		event, err := validateOrder(&raw, result.LinesRead)
		if err != nil {
			return nil, err
		}
		result.Events = append(result.Events, *event)
		if opts.OnOrder != nil {
			opts.OnOrder()
		}

		if opts.MaxSample > 0 && len(result.Events) >= opts.MaxSample {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading source stream: %w", err)
	}

	return result, nil
}

// validateOrder converte um rawOrder em OrderEvent, falhando rápido em
// coluna obrigatória ausente.
func validateOrder(raw *rawOrder, line int) (*entity.OrderEvent, error) {
	if raw.OrderCreatedAt == nil {
		return nil, &types.MissingFieldError{Field: "order_created_at", Line: line}
	}
	if raw.OrderTotalAmount == nil {
		return nil, &types.MissingFieldError{Field: "order_total_amount", Line: line}
	}
	if len(raw.IsTarget) == 0 {
		return nil, &types.MissingFieldError{Field: "is_target", Line: line}
	}
	if len(raw.Active) == 0 {
		return nil, &types.MissingFieldError{Field: "active", Line: line}
	}

	// Timestamp vazio é nulo permitido: propaga como zero time.
	var createdAt time.Time
	if ts := strings.TrimSpace(*raw.OrderCreatedAt); ts != "" {
		parsed, err := parseTimestamp(ts)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		createdAt = parsed
	}

	isTarget, err := parseFlag(raw.IsTarget)
	if err != nil {
		return nil, fmt.Errorf("line %d: is_target: %w", line, err)
	}
	active, err := parseFlag(raw.Active)
	if err != nil {
		return nil, fmt.Errorf("line %d: active: %w", line, err)
	}

	return &entity.OrderEvent{
		CustomerID:       *raw.CustomerID,
		OrderCreatedAt:   createdAt,
		OrderTotalAmount: *raw.OrderTotalAmount,
		IsTarget:         isTarget,
		Active:           active,
	}, nil
}

func parseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable order_created_at %q", value)
}

// parseFlag normaliza os valores "truthy" da fonte (bool, número ou string)
// para um bool de dois valores na borda da carga.
func parseFlag(raw json.RawMessage) (bool, error) {
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, nil
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n != 0, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", "t", "1", "yes", "y", "sim":
			return true, nil
		case "false", "f", "0", "no", "n", "nao", "não", "":
			return false, nil
		}
		return false, fmt.Errorf("unrecognized flag value %q", s)
	}
	return false, fmt.Errorf("unrecognized flag value %s", string(raw))
}

// openSource resolve a URL da fonte para um stream de leitura.
func (r *OrderRepositoryImpl) openSource(ctx context.Context, opts entity.LoadOptions) (io.ReadCloser, error) {
	switch {
	case strings.HasPrefix(opts.SourceURL, "s3://"):
		return r.openS3(ctx, opts.SourceURL)
	case strings.HasPrefix(opts.SourceURL, "http://"), strings.HasPrefix(opts.SourceURL, "https://"):
		return r.openHTTP(ctx, opts)
	default:
		file, err := os.Open(opts.SourceURL)
		if err != nil {
			return nil, fmt.Errorf("error opening source file: %w", err)
		}
		return file, nil
	}
}

func (r *OrderRepositoryImpl) openHTTP(ctx context.Context, opts entity.LoadOptions) (io.ReadCloser, error) {
	client := r.getHTTPClient(opts.Timeout)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opts.SourceURL, nil)
	if err != nil {
		return nil, fmt.Errorf("error building source request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error fetching source: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("source returned status %s", resp.Status)
	}
	return resp.Body, nil
}

func (r *OrderRepositoryImpl) getHTTPClient(timeout time.Duration) *http.Client {
	r.mu.Lock()
	defer r.mu.Unlock()

	if timeout == 0 {
		timeout = defaultHTTPTimeout
	}
	if r.httpClient == nil || r.httpClient.Timeout != timeout {
		r.httpClient = &http.Client{Timeout: timeout}
	}
	return r.httpClient
}

func (r *OrderRepositoryImpl) openS3(ctx context.Context, sourceURL string) (io.ReadCloser, error) {
	parsed, err := url.Parse(sourceURL)
	if err != nil {
		return nil, fmt.Errorf("error parsing S3 URI: %w", err)
	}
	bucket := parsed.Host
	key := strings.TrimPrefix(parsed.Path, "/")
	if bucket == "" || key == "" {
		return nil, fmt.Errorf("invalid S3 URI %q, expected s3://bucket/key", sourceURL)
	}

	client, err := r.getS3Client(ctx)
	if err != nil {
		return nil, err
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return nil, fmt.Errorf("error fetching s3://%s/%s: %w", bucket, key, err)
	}
	return out.Body, nil
}

func (r *OrderRepositoryImpl) getS3Client(ctx context.Context) (*s3.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.s3Client != nil {
		return r.s3Client, nil
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	r.s3Client = s3.NewFromConfig(cfg)
	return r.s3Client, nil
}

// maybeGunzip detecta o magic number do gzip e envolve o stream quando
// necessário, aceitando fontes .json e .json.gz sem distinção.
func maybeGunzip(rd io.Reader) (io.Reader, error) {
	buffered := bufio.NewReader(rd)
	magic, err := buffered.Peek(2)
	if err != nil && err != io.EOF {
		return nil, err
	}
	if len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		return gzip.NewReader(buffered)
	}
	return buffered, nil
}
