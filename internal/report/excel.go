package report

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"inventory-console/internal/builder"
	"inventory-console/internal/models"
	"inventory-console/internal/store"
	"inventory-console/internal/util"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Service builds XLSX exports for the console's report pages.
type Service struct {
	store  *store.Store
	logger *zap.Logger
}

// NewService creates a report service
func NewService(store *store.Store) *Service {
	return &Service{
		store:  store,
		logger: util.NamedLogger("reports"),
	}
}

// StockReport exports current stock levels as an XLSX workbook.
func (s *Service) StockReport(ctx context.Context) (*bytes.Buffer, error) {
	start := time.Now()
	defer func() {
		util.ReportBuildLatency.WithLabelValues("stock").Observe(time.Since(start).Seconds())
	}()

	levels, err := s.store.ListStockLevels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stock levels: %w", err)
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := []interface{}{"product_id", "sku", "name", "stock", "updated_at"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	row := 2
	for _, level := range levels {
		cells := []interface{}{
			level.ProductID,
			level.SKU,
			level.Name,
			level.Stock,
			level.UpdatedAt.Format(time.RFC3339),
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", row, err)
		}
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}

	s.logger.Info("Stock report built", zap.Int("rows", len(levels)))
	return buf, nil
}

// OrderRegister exports all orders of one kind as an XLSX workbook.
func (s *Service) OrderRegister(ctx context.Context, kind string) (*bytes.Buffer, error) {
	start := time.Now()
	defer func() {
		util.ReportBuildLatency.WithLabelValues("orders").Observe(time.Since(start).Seconds())
	}()

	if kind != models.OrderKindSales && kind != models.OrderKindPurchase {
		return nil, &builder.ValidationError{Msg: fmt.Sprintf("unknown order kind: %s", kind)}
	}

	orders, err := s.store.ListOrders(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := []interface{}{
		"order_id", "counterparty_id", "order_date", "order_status",
		"total_items", "sub_total", "vat", "total_amount",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	row := 2
	for _, o := range orders {
		cells := []interface{}{
			o.ID,
			o.CounterpartyID,
			o.OrderDate.Format("2006-01-02"),
			o.Status,
			o.TotalItems,
			o.SubTotal,
			o.VATPercent,
			o.TotalAmount,
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", row, err)
		}
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}

	s.logger.Info("Order register built",
		zap.String("kind", kind),
		zap.Int("rows", len(orders)))
	return buf, nil
}
