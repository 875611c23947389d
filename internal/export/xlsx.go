// Package export writes a compiled plan as an address-plan workbook for
// operators who want the lab's addressing on paper before deploying.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/cyrange/cyrange/internal/domain"
)

// WriteXLSX writes the plan's subnetworks, machines and DNS records as
// an XLSX workbook at the given path.
func WriteXLSX(plan *domain.Plan, path string) error {
	f := BuildWorkbook(plan)
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write address plan: %w", err)
	}
	return f.Close()
}

// BuildWorkbook builds the in-memory workbook for a plan.
func BuildWorkbook(plan *domain.Plan) *excelize.File {
	f := excelize.NewFile()

	subnetSheet := "Subnetworks"
	f.SetSheetName("Sheet1", subnetSheet)
	writeSheetRows(f, subnetSheet, buildSubnetworkRows(plan))

	machineSheet := "Machines"
	f.NewSheet(machineSheet)
	writeSheetRows(f, machineSheet, buildMachineRows(plan))

	dnsSheet := "DNS"
	f.NewSheet(dnsSheet)
	writeSheetRows(f, dnsSheet, buildDNSRows(plan))

	return f
}

func buildSubnetworkRows(plan *domain.Plan) [][]any {
	rows := [][]any{{"instance", "network", "cidr", "capacity"}}
	for _, s := range plan.Subnetworks {
		rows = append(rows, []any{s.Instance, s.Network, s.CIDR, s.Capacity})
	}
	return rows
}

func buildMachineRows(plan *domain.Plan) [][]any {
	rows := [][]any{{"name", "guest", "instance", "copy", "network", "ip_address"}}
	for _, m := range plan.Machines {
		for _, iface := range m.Interfaces {
			rows = append(rows, []any{m.Name, m.Guest, m.Instance, m.Copy, iface.Network, iface.IPAddress})
		}
	}
	return rows
}

func buildDNSRows(plan *domain.Plan) [][]any {
	rows := [][]any{{"machine", "forward", "reverse", "ip_address"}}
	for _, m := range plan.Machines {
		for _, rec := range m.DNS {
			rows = append(rows, []any{m.Name, rec.Forward, rec.Reverse, rec.IPAddress})
		}
	}
	return rows
}

// writeSheetRows fills a sheet row by row starting at A1.
func writeSheetRows(f *excelize.File, sheet string, rows [][]any) {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			continue
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			continue
		}
	}
}
