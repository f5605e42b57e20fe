package services

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/terraincognita07/cyclecast/internal/models"
	"github.com/xuri/excelize/v2"
)

const exportSheetName = "Entries"

var ErrExportBuildFailed = errors.New("build export failed")

type ExportEntryReader interface {
	ListEntries() ([]models.CycleEntry, error)
}

type ExportService struct {
	entries ExportEntryReader
}

type ExportSummary struct {
	TotalEntries int    `json:"totalEntries"`
	HasData      bool   `json:"hasData"`
	DateFrom     string `json:"dateFrom,omitempty"`
	DateTo       string `json:"dateTo,omitempty"`
}

type ExportJSONEntry struct {
	Date                 string           `json:"date"`
	Flow                 string           `json:"flow"`
	Mood                 string           `json:"mood,omitempty"`
	Symptoms             []models.Symptom `json:"symptoms"`
	BasalBodyTemperature *float64         `json:"basalBodyTemperature,omitempty"`
	WaterIntakeMl        *int             `json:"waterIntakeMl,omitempty"`
	Notes                string           `json:"notes"`
}

func NewExportService(entries ExportEntryReader) *ExportService {
	return &ExportService{entries: entries}
}

// ExportHeaders has one Yes/No column per catalogue symptom.
func ExportHeaders() []string {
	headers := []string{"Date", "Flow", "Mood"}
	for _, symptom := range models.SymptomCatalog() {
		headers = append(headers, exportSymptomLabel(symptom))
	}
	return append(headers, "BBT (C)", "Water (ml)", "Notes")
}

// LoadEntries returns every entry oldest first.
func (service *ExportService) LoadEntries() ([]models.CycleEntry, error) {
	entries, err := service.entries.ListEntries()
	if err != nil {
		return nil, ErrEntryListFailed
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})
	return entries, nil
}

func (service *ExportService) BuildSummary() (ExportSummary, error) {
	entries, err := service.LoadEntries()
	if err != nil {
		return ExportSummary{}, err
	}
	if len(entries) == 0 {
		return ExportSummary{}, nil
	}
	return ExportSummary{
		TotalEntries: len(entries),
		HasData:      true,
		DateFrom:     entries[0].Date.String(),
		DateTo:       entries[len(entries)-1].Date.String(),
	}, nil
}

func (service *ExportService) BuildJSONEntries() ([]ExportJSONEntry, error) {
	entries, err := service.LoadEntries()
	if err != nil {
		return nil, err
	}

	result := make([]ExportJSONEntry, 0, len(entries))
	for _, entry := range entries {
		symptoms := []models.Symptom(entry.Symptoms)
		if symptoms == nil {
			symptoms = []models.Symptom{}
		}
		result = append(result, ExportJSONEntry{
			Date:                 entry.Date.String(),
			Flow:                 exportFlowValue(entry.Flow),
			Mood:                 exportMoodValue(entry.Mood),
			Symptoms:             symptoms,
			BasalBodyTemperature: entry.BasalBodyTemperature,
			WaterIntakeMl:        entry.WaterIntakeMl,
			Notes:                entry.Notes,
		})
	}
	return result, nil
}

func (service *ExportService) BuildRows() ([][]string, error) {
	entries, err := service.LoadEntries()
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, exportRowColumns(entry))
	}
	return rows, nil
}

func (service *ExportService) WriteCSV(output io.Writer) error {
	rows, err := service.BuildRows()
	if err != nil {
		return err
	}

	writer := csv.NewWriter(output)
	if err := writer.Write(ExportHeaders()); err != nil {
		return ErrExportBuildFailed
	}
	if err := writer.WriteAll(rows); err != nil {
		return ErrExportBuildFailed
	}
	return nil
}

func (service *ExportService) BuildXLSX() ([]byte, error) {
	rows, err := service.BuildRows()
	if err != nil {
		return nil, err
	}

	file := excelize.NewFile()
	defer file.Close()

	index, err := file.NewSheet(exportSheetName)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	if err := file.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}
	file.SetActiveSheet(index)

	headerStyle, err := file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#FCE4EC"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	headers := ExportHeaders()
	if err := file.SetSheetRow(exportSheetName, "A1", &headers); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	lastHeaderCell, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return nil, fmt.Errorf("header range: %w", err)
	}
	if err := file.SetCellStyle(exportSheetName, "A1", lastHeaderCell, headerStyle); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}
	if err := file.SetColWidth(exportSheetName, "A", "A", 12); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}

	for rowIndex, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, rowIndex+2)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowIndex+2, err)
		}
		if err := file.SetSheetRow(exportSheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", rowIndex+2, err)
		}
	}

	var output bytes.Buffer
	if _, err := file.WriteTo(&output); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return output.Bytes(), nil
}

func exportRowColumns(entry models.CycleEntry) []string {
	present := make(map[models.Symptom]bool, len(entry.Symptoms))
	for _, symptom := range entry.Symptoms {
		present[symptom] = true
	}

	columns := []string{
		entry.Date.String(),
		exportFlowLabel(entry.Flow),
		exportMoodValue(entry.Mood),
	}
	for _, symptom := range models.SymptomCatalog() {
		columns = append(columns, exportYesNo(present[symptom]))
	}

	bbt := ""
	if entry.BasalBodyTemperature != nil {
		bbt = strconv.FormatFloat(*entry.BasalBodyTemperature, 'f', 2, 64)
	}
	water := ""
	if entry.WaterIntakeMl != nil {
		water = strconv.Itoa(*entry.WaterIntakeMl)
	}
	return append(columns, bbt, water, entry.Notes)
}

func exportSymptomLabel(symptom models.Symptom) string {
	switch symptom {
	case models.SymptomCramps:
		return "Cramps"
	case models.SymptomHeadache:
		return "Headache"
	case models.SymptomBloating:
		return "Bloating"
	case models.SymptomFatigue:
		return "Fatigue"
	case models.SymptomAcne:
		return "Acne"
	case models.SymptomInsomnia:
		return "Insomnia"
	case models.SymptomBackPain:
		return "Back pain"
	case models.SymptomNausea:
		return "Nausea"
	default:
		return string(symptom)
	}
}

func exportYesNo(value bool) string {
	if value {
		return "Yes"
	}
	return "No"
}

func exportFlowLabel(flow *models.Flow) string {
	switch exportFlowValue(flow) {
	case string(models.FlowLight):
		return "Light"
	case string(models.FlowMedium):
		return "Medium"
	case string(models.FlowHeavy):
		return "Heavy"
	default:
		return "None"
	}
}

func exportFlowValue(flow *models.Flow) string {
	if flow == nil || !flow.IsValid() {
		return string(models.FlowNone)
	}
	return string(*flow)
}

func exportMoodValue(mood *models.Mood) string {
	if mood == nil {
		return ""
	}
	return string(*mood)
}
