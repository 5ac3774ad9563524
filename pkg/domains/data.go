// Copyright 2026 © The Typhon Authors
// SPDX-License-Identifier: Apache-2.0

package domains

import (
	"embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFS embed.FS

type financeData struct {
	Prices   map[string]Quote   `yaml:"prices"`
	Accounts map[string]Account `yaml:"accounts"`
}

// Quote is one snapshot of market data for a ticker.
type Quote struct {
	Price         float64 `yaml:"price" json:"price"`
	Change        float64 `yaml:"change" json:"change"`
	ChangePercent float64 `yaml:"change_percent" json:"change_percent"`
	Volume        int64   `yaml:"volume" json:"volume"`
	High          float64 `yaml:"high" json:"high"`
	Low           float64 `yaml:"low" json:"low"`
	Open          float64 `yaml:"open" json:"open"`
}

// Account is a brokerage account with its holdings.
type Account struct {
	Name           string             `yaml:"name" json:"name"`
	AccountNumber  string             `yaml:"account_number" json:"account_number"`
	PortfolioValue float64            `yaml:"portfolio_value" json:"portfolio_value"`
	Holdings       map[string]Holding `yaml:"holdings" json:"holdings"`
}

// Holding is one position in an account.
type Holding struct {
	Shares  int     `yaml:"shares" json:"shares"`
	AvgCost float64 `yaml:"avg_cost" json:"avg_cost"`
}

type healthcareData struct {
	Patients     map[string]Patient    `yaml:"patients"`
	Medications  map[string]Medication `yaml:"medications"`
	Interactions []Interaction         `yaml:"interactions"`
	Labs         map[string]LabReport  `yaml:"labs"`
}

// Patient is one record in the mock medical records system.
type Patient struct {
	PatientID          string   `yaml:"patient_id" json:"patient_id"`
	Name               string   `yaml:"name" json:"name"`
	Age                int      `yaml:"age" json:"age"`
	Gender             string   `yaml:"gender" json:"gender"`
	BloodType          string   `yaml:"blood_type" json:"blood_type"`
	Allergies          []string `yaml:"allergies" json:"allergies"`
	CurrentMedications []string `yaml:"current_medications" json:"current_medications"`
	Conditions         []string `yaml:"conditions" json:"conditions"`
	LastVisit          string   `yaml:"last_visit" json:"last_visit"`
	PrimaryPhysician   string   `yaml:"primary_physician" json:"primary_physician"`
}

// Medication describes one drug in the mock formulary.
type Medication struct {
	Name          string   `yaml:"name" json:"name"`
	GenericName   string   `yaml:"generic_name" json:"generic_name"`
	BrandNames    []string `yaml:"brand_names" json:"brand_names"`
	DrugClass     string   `yaml:"drug_class" json:"drug_class"`
	Uses          string   `yaml:"uses" json:"uses"`
	CommonDosages []string `yaml:"common_dosages" json:"common_dosages"`
	SideEffects   []string `yaml:"side_effects" json:"side_effects"`
	Warnings      string   `yaml:"warnings" json:"warnings"`
}

// Interaction is one known drug-drug interaction.
type Interaction struct {
	Medications    []string `yaml:"medications" json:"medications"`
	Severity       string   `yaml:"severity" json:"severity"`
	Description    string   `yaml:"description" json:"description"`
	Recommendation string   `yaml:"recommendation" json:"recommendation"`
}

// LabReport holds the lab tests on file for one patient.
type LabReport struct {
	PatientID   string    `yaml:"patient_id" json:"patient_id"`
	PatientName string    `yaml:"patient_name" json:"patient_name"`
	Tests       []LabTest `yaml:"tests" json:"tests"`
}

// LabTest is one completed panel with its measured values.
type LabTest struct {
	TestType string               `yaml:"test_type" json:"test_type"`
	TestDate string               `yaml:"test_date" json:"test_date"`
	Status   string               `yaml:"status" json:"status"`
	Results  map[string]LabResult `yaml:"results" json:"results"`
}

// LabResult is one measured value with its reference range.
type LabResult struct {
	Value          float64 `yaml:"value" json:"value"`
	Unit           string  `yaml:"unit" json:"unit"`
	ReferenceRange string  `yaml:"reference_range" json:"reference_range"`
	Flag           string  `yaml:"flag" json:"flag"`
}

type ecommerceData struct {
	Catalog []Product `yaml:"catalog"`
}

// Product is one catalog entry.
type Product struct {
	SKU      string  `yaml:"sku" json:"sku"`
	Name     string  `yaml:"name" json:"name"`
	Price    float64 `yaml:"price" json:"price"`
	Category string  `yaml:"category" json:"category"`
}

var (
	loadOnce sync.Once
	loadErr  error

	finance    financeData
	healthcare healthcareData
	ecommerce  ecommerceData
)

func loadDatasets() error {
	loadOnce.Do(func() {
		loadErr = func() error {
			if err := loadYAML("data/finance.yaml", &finance); err != nil {
				return err
			}
			if err := loadYAML("data/healthcare.yaml", &healthcare); err != nil {
				return err
			}
			return loadYAML("data/ecommerce.yaml", &ecommerce)
		}()
	})
	return loadErr
}

func loadYAML(path string, dst any) error {
	raw, err := dataFS.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read dataset %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("parse dataset %s: %w", path, err)
	}
	return nil
}
