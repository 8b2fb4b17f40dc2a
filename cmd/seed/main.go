// Package main provides the seed command-line tool. It writes a sample messy
// appointment export carrying the corruption patterns the pipeline repairs,
// for local runs and demos.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// sampleRows reproduce the defects seen in real exports: an unescaped comma
// inside a date/time value, impossible calendar dates, the "Unknown" literal,
// mixed date locales, duplicate rows, and a row with no patient name.
var sampleRows = []string{
	"Patient Name,Patint DOB,Patient Gendr,Doctor name,Doctor specialty,Appointment date time,Appointment location,Reason for visit,Note,Follow up",
	"John Smith,15/03/1980,M,Dr. Adams,Cardiology,01-06-2021 09:30,Main Clinic,Checkup,Stable,yes",
	"Jane Doe,1985/07/22,f,Dr. Baker,Dermatology,2021/06/02 2:15 PM,North Wing,Rash,,no",
	"Mike Miller,01 Jan 1970,m,Dr. Adams,Cardiology,15/03/2021, 10:00 AM,Main Clinic,Follow-up,Recovering,yes",
	"Alice Wong,30 Feb 1980,F,Dr. Chen,Neurology,05-06-2021 11:00,East Wing,Migraine,Recurring,TRUE",
	"Bob Stone,31/04/2000,male,Dr. Baker,Dermatology,Unknown,North Wing,Mole check,,false",
	"John Smith,15/03/1980,M,Dr. Adams,Cardiology,01-06-2021 09:30,Main Clinic,Checkup,Stable,yes",
	",12-11-1990,F,Dr. Chen,Neurology,07-06-2021 16:45,East Wing,Consult,Referred,no",
	"Carla Diaz,29 Feb 1993,FEMALE,Dr. Evans,Pediatrics,10 June 2021 8:00 AM,South Wing,Vaccination,First visit,maybe",
	"Dan Field,03/15/1988,m,Dr. Evans,Pediatrics,31-04-2021 10:00 AM,South Wing,Fever,NULL,yes",
}

func main() {
	outputPath := flag.String("output", "healthcare_data.csv", "Path for the generated sample export")
	flag.Parse()

	if err := os.MkdirAll(filepath.Dir(*outputPath), 0755); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create directory: %v\n", err)
		os.Exit(1)
	}

	// Written as raw lines: the split-field row must stay malformed, which a
	// CSV writer would quote away.
	content := strings.Join(sampleRows, "\n") + "\n"

	if err := os.WriteFile(*outputPath, []byte(content), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write sample export: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("wrote %d sample rows to %s\n", len(sampleRows)-1, *outputPath)
}
