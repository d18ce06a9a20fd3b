package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/atvirokodosprendimai/gradcatalog/internal/domain"
)

func jsonMarshal(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

func printJSON(v any) error {
	b, err := jsonMarshal(v)
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func printKV(rows [][2]string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, row := range rows {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", row[0], row[1])
	}
	_ = w.Flush()
}

func printTable(headers []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Println("no results")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, strings.Join(headers, "\t"))
	for _, row := range rows {
		_, _ = fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	_ = w.Flush()
}

func uintToString(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05")
}

func printCampuses(items []domain.Campus) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			uintToString(item.Codigo),
			item.Name,
			string(item.State),
			formatTime(item.UpdatedAt),
		})
	}
	printTable([]string{"CODIGO", "NAME", "STATE", "UPDATED_AT"}, rows)
}

func printFaculties(items []domain.Faculty) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			uintToString(item.Codigo),
			item.Name,
			string(item.State),
			formatTime(item.UpdatedAt),
		})
	}
	printTable([]string{"CODIGO", "NAME", "STATE", "UPDATED_AT"}, rows)
}

func printDegreeTypes(items []domain.DegreeType) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			uintToString(item.Codigo),
			item.Name,
			string(item.State),
			formatTime(item.UpdatedAt),
		})
	}
	printTable([]string{"CODIGO", "NAME", "STATE", "UPDATED_AT"}, rows)
}

func printProgramDetails(items []domain.ProgramDetail) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			uintToString(item.Codigo),
			item.Name,
			item.DegreeTypeName,
			item.FacultyName,
			item.CampusName,
			string(item.State),
			formatTime(item.UpdatedAt),
		})
	}
	printTable([]string{"CODIGO", "NAME", "DEGREE_TYPE", "FACULTY", "CAMPUS", "STATE", "UPDATED_AT"}, rows)
}
