// Copyright 2026 © The Typhon Authors
// SPDX-License-Identifier: Apache-2.0

package domains

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/typhonlabs/typhon/pkg/core"
)

func healthcareDomain() *Domain {
	return &Domain{
		Name:        "healthcare",
		Description: "Mock clinic: patient records, scheduling, medications, and labs",
		Tools: []core.Tool{
			core.NewTool("get_patient_info",
				"Retrieve patient information from the medical records system", getPatientInfo),
			core.NewTool("schedule_appointment",
				"Schedule a medical appointment for a patient", scheduleAppointment),
			core.NewTool("get_medication_info",
				"Get detailed information about a medication", getMedicationInfo),
			core.NewTool("check_drug_interactions",
				"Check for interactions between multiple medications", checkDrugInteractions),
			core.NewTool("get_lab_results",
				"Retrieve laboratory test results for a patient", getLabResults),
		},
	}
}

type notFoundResponse struct {
	Error      string `json:"error"`
	Identifier string `json:"patient_id,omitempty"`
	Medication string `json:"medication_name,omitempty"`
	Message    string `json:"message"`
}

func getPatientInfo(ctx context.Context, input any) (any, error) {
	args, err := argsMap(input)
	if err != nil {
		return nil, err
	}
	patientID, err := stringArg(args, "patient_id", true)
	if err != nil {
		return nil, err
	}

	patient, ok := healthcare.Patients[patientID]
	if !ok {
		// Unknown patients come back as a structured miss, not a Go
		// error, so the agent can relay the message.
		return toJSON(notFoundResponse{
			Error:      "Patient not found",
			Identifier: patientID,
			Message:    "No patient record found with the provided ID",
		}), nil
	}
	return toJSON(patient), nil
}

type appointmentConfirmation struct {
	ConfirmationNumber string `json:"confirmation_number"`
	PatientID          string `json:"patient_id"`
	PatientName        string `json:"patient_name"`
	Provider           string `json:"provider"`
	Date               string `json:"date"`
	Time               string `json:"time"`
	Reason             string `json:"reason"`
	Status             string `json:"status"`
	Location           string `json:"location"`
	Instructions       string `json:"instructions"`
	CreatedAt          string `json:"created_at"`
}

func scheduleAppointment(ctx context.Context, input any) (any, error) {
	args, err := argsMap(input)
	if err != nil {
		return nil, err
	}
	patientID, err := stringArg(args, "patient_id", true)
	if err != nil {
		return nil, err
	}
	provider, err := stringArg(args, "provider_name", true)
	if err != nil {
		return nil, err
	}
	date, err := stringArg(args, "appointment_date", true)
	if err != nil {
		return nil, err
	}
	timeOfDay, err := stringArg(args, "appointment_time", true)
	if err != nil {
		return nil, err
	}
	reason, err := stringArg(args, "reason", false)
	if err != nil {
		return nil, err
	}

	patientName := "Unknown Patient"
	if patient, ok := healthcare.Patients[patientID]; ok {
		patientName = patient.Name
	}

	return toJSON(appointmentConfirmation{
		ConfirmationNumber: fmt.Sprintf("APT-%06d", rand.Intn(900000)+100000),
		PatientID:          patientID,
		PatientName:        patientName,
		Provider:           provider,
		Date:               date,
		Time:               timeOfDay,
		Reason:             reason,
		Status:             "confirmed",
		Location:           "Main Medical Center, Suite 200",
		Instructions:       "Please arrive 15 minutes early for check-in. Bring your insurance card and photo ID.",
		CreatedAt:          time.Now().Format("2006-01-02 15:04:05"),
	}), nil
}

func getMedicationInfo(ctx context.Context, input any) (any, error) {
	args, err := argsMap(input)
	if err != nil {
		return nil, err
	}
	name, err := stringArg(args, "medication_name", true)
	if err != nil {
		return nil, err
	}

	med, ok := healthcare.Medications[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return toJSON(notFoundResponse{
			Error:      "Medication not found",
			Medication: name,
			Message:    "No information available for this medication. Please consult a pharmacist or healthcare provider.",
		}), nil
	}
	return toJSON(med), nil
}

type interactionReport struct {
	MedicationsChecked []string      `json:"medications_checked"`
	InteractionsFound  int           `json:"interactions_found"`
	Interactions       []Interaction `json:"interactions"`
	Status             string        `json:"status"`
	Message            string        `json:"message"`
	Disclaimer         string        `json:"disclaimer"`
}

func checkDrugInteractions(ctx context.Context, input any) (any, error) {
	args, err := argsMap(input)
	if err != nil {
		return nil, err
	}
	medications, err := stringSliceArg(args, "medications", true)
	if err != nil {
		return nil, err
	}

	normalized := make([]string, len(medications))
	for i, med := range medications {
		normalized[i] = strings.ToLower(strings.TrimSpace(med))
	}

	found := make([]Interaction, 0)
	for i := 0; i < len(normalized); i++ {
		for j := i + 1; j < len(normalized); j++ {
			if hit, ok := lookupInteraction(normalized[i], normalized[j]); ok {
				hit.Medications = []string{medications[i], medications[j]}
				found = append(found, hit)
			}
		}
	}

	status := "safe"
	message := "No known interactions found"
	if len(found) > 0 {
		status = "warning"
		message = fmt.Sprintf("Found %d potential interaction(s)", len(found))
	}

	return toJSON(interactionReport{
		MedicationsChecked: medications,
		InteractionsFound:  len(found),
		Interactions:       found,
		Status:             status,
		Message:            message,
		Disclaimer:         "This is not a substitute for professional medical advice. Always consult your healthcare provider.",
	}), nil
}

func lookupInteraction(a, b string) (Interaction, bool) {
	for _, entry := range healthcare.Interactions {
		if len(entry.Medications) != 2 {
			continue
		}
		x, y := entry.Medications[0], entry.Medications[1]
		if (a == x && b == y) || (a == y && b == x) {
			return entry, true
		}
	}
	return Interaction{}, false
}

func getLabResults(ctx context.Context, input any) (any, error) {
	args, err := argsMap(input)
	if err != nil {
		return nil, err
	}
	patientID, err := stringArg(args, "patient_id", true)
	if err != nil {
		return nil, err
	}
	testType, err := stringArg(args, "test_type", false)
	if err != nil {
		return nil, err
	}

	report, ok := healthcare.Labs[patientID]
	if !ok {
		return toJSON(notFoundResponse{
			Error:      "No lab results found",
			Identifier: patientID,
			Message:    "No laboratory results found for this patient ID",
		}), nil
	}

	if testType != "" {
		filtered := make([]LabTest, 0, len(report.Tests))
		for _, test := range report.Tests {
			if strings.Contains(strings.ToLower(test.TestType), strings.ToLower(testType)) {
				filtered = append(filtered, test)
			}
		}
		report.Tests = filtered
	}
	return toJSON(report), nil
}
