package core

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"testing"
)

// ============================================================================
// Import Benchmarks
// ============================================================================

// generateImportCSV builds a CSV payload with rows valid students.
func generateImportCSV(rows int) []byte {
	var b bytes.Buffer
	b.WriteString(importHeader)
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&b, "S%06d,Student Number,Computer Science,%d,%.2f,s%d@uni.edu,02000%05d,2024-01-01,Active\n",
			i, 100*(1+i%7), float64(i%500)/100, i, i)
	}
	return b.Bytes()
}

// BenchmarkImport measures a full import into an empty in-memory store.
func BenchmarkImport(b *testing.B) {
	for _, rows := range []int{100, 1000, 10000} {
		data := generateImportCSV(rows)
		b.Run(fmt.Sprintf("rows=%d", rows), func(b *testing.B) {
			b.SetBytes(int64(len(data)))
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				im := NewImporter(NewService(NewMemStore()))
				res := im.Import(context.Background(), bytes.NewReader(data))
				if res.FailureCount != 0 {
					b.Fatalf("unexpected failures: %s", res.Message)
				}
			}
		})
	}
}

// BenchmarkImport_Reimport measures the update path: every row already exists.
func BenchmarkImport_Reimport(b *testing.B) {
	data := generateImportCSV(1000)
	im := NewImporter(NewService(NewMemStore()))
	im.Import(context.Background(), bytes.NewReader(data))

	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		im.Import(context.Background(), bytes.NewReader(data))
	}
}

// ============================================================================
// Validation Benchmarks
// ============================================================================

// BenchmarkValidateFields runs the full ordered rule chain on a valid record.
func BenchmarkValidateFields(b *testing.B) {
	v := NewValidator(nil)
	s := validStudent("UMAT001")

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if err := v.ValidateFields(s); err != nil {
			b.Fatal(err)
		}
	}
}

// ============================================================================
// Export Benchmarks
// ============================================================================

// BenchmarkExport writes records that alternate between plain and quoted names.
func BenchmarkExport(b *testing.B) {
	students := make([]Student, 1000)
	for i := range students {
		s := validStudent(fmt.Sprintf("S%06d", i))
		if i%2 == 0 {
			s.FullName = "Smith, Jr."
		}
		students[i] = s
	}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if err := Export(io.Discard, students); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkReport builds every summary view over a mid-size cohort.
func BenchmarkReport(b *testing.B) {
	students := make([]Student, 5000)
	for i := range students {
		s := validStudent(fmt.Sprintf("S%06d", i))
		s.GPA = float64(i%500) / 100
		s.Programme = []string{"Law", "Physics", "History"}[i%3]
		students[i] = s
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r := NewReport(students, DefaultThresholds)
		r.BandCounts()
		r.AtRisk()
		r.TopPerformers("", 0, 10)
		r.GPADistribution()
	}
}

