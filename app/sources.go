package app

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Claudio-NG/FROTAS/config"
	"github.com/Claudio-NG/FROTAS/core/logger"
	"github.com/Claudio-NG/FROTAS/core/normalize"
)

// Sources holds the raw rows of the four record streams. A missing file
// leaves its stream empty; the engine degrades per source.
type Sources struct {
	Roster      []normalize.RosterRow
	Maintenance []normalize.ServiceRow
	Intake      []normalize.IntakeRow
	Fuel        []normalize.FuelRow
}

// LoadSources reads the configured CSV files. Header discovery is tolerant
// to the spreadsheet variants the upstream exporters produce.
func LoadSources(cfg config.SourcesConfig, log logger.Logger) (*Sources, error) {
	s := &Sources{}
	if err := loadCSV(cfg.Roster, log, func(row fields) {
		s.Roster = append(s.Roster, normalize.RosterRow{
			Plate:       row.get("plate", "placa"),
			Responsible: row.get("responsible", "respons"),
			Unit:        row.get("unit", "setor", "sector", "department"),
			Region:      row.get("region", "regiao"),
			Division:    row.get("division", "bloco", "block"),
			Site:        row.get("site", "igreja"),
			Make:        row.get("make", "marca", "manufacturer", "fabricante"),
			Model:       row.get("model", "modelo"),
			ModelYear:   row.get("model year", "ano modelo", "year", "ano"),
			Status:      row.get("status"),
		})
	}); err != nil {
		return nil, fmt.Errorf("roster: %w", err)
	}
	if err := loadCSV(cfg.Maintenance, log, func(row fields) {
		s.Maintenance = append(s.Maintenance, normalize.ServiceRow{
			Plate:    row.get("plate", "placa"),
			Date:     row.get("service date", "data", "date"),
			Odometer: row.get("odometer", "km", "hodometro", "mileage"),
			Workshop: row.get("workshop", "oficina"),
			Cost:     row.get("cost", "custo", "valor", "value"),
		})
	}); err != nil {
		return nil, fmt.Errorf("maintenance: %w", err)
	}
	if err := loadCSV(cfg.Intake, log, func(row fields) {
		s.Intake = append(s.Intake, normalize.IntakeRow{
			Plate:     row.get("plate", "placa"),
			Date:      row.get("intake date", "entry date", "data inicio", "start date", "date", "data"),
			Make:      row.get("make", "marca", "fabricante"),
			Model:     row.get("model", "modelo"),
			ModelYear: row.get("model year", "ano modelo", "year", "ano"),
			Status:    row.get("status"),
		})
	}); err != nil {
		return nil, fmt.Errorf("intake: %w", err)
	}
	if err := loadCSV(cfg.Fuel, log, func(row fields) {
		s.Fuel = append(s.Fuel, normalize.FuelRow{
			Plate:    row.get("plate", "placa"),
			Date:     row.get("transaction date", "data transa", "date", "data"),
			Odometer: row.get("odometer", "hodometro", "horimetro", "hour meter", "km"),
		})
	}); err != nil {
		return nil, fmt.Errorf("fuel: %w", err)
	}
	return s, nil
}

// fields maps resolved header indices onto one CSV record.
type fields struct {
	headers []string
	record  []string
}

// get returns the first column whose lowercased header contains every
// space-separated part of one of the hints, in hint priority order.
func (f fields) get(hints ...string) string {
	for _, hint := range hints {
		parts := strings.Fields(strings.ToLower(hint))
	next:
		for i, h := range f.headers {
			if i >= len(f.record) {
				break
			}
			lh := strings.ToLower(h)
			for _, p := range parts {
				if !strings.Contains(lh, p) {
					continue next
				}
			}
			return f.record[i]
		}
	}
	return ""
}

func loadCSV(path string, log logger.Logger, add func(fields)) error {
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warnf("source file missing, skipping: %s", path)
			return nil
		}
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	headers, err := r.Read()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// one bad row never aborts the load
			log.Warnf("skipping malformed row in %s: %v", path, err)
			continue
		}
		add(fields{headers: headers, record: rec})
	}
	return nil
}
