package record

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MedicalRecord is one scan/diagnosis event. This service only reads the
// collection; records are produced by the imaging pipeline.
type MedicalRecord struct {
	ID        primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	PatientID primitive.ObjectID     `bson:"patient_id" json:"patient_id"`
	ScanType  string                 `bson:"scan_type" json:"scan_type"`
	Diagnosis string                 `bson:"diagnosis" json:"diagnosis"`
	ImageURL  string                 `bson:"image_url,omitempty" json:"image_url,omitempty"`
	Metadata  map[string]interface{} `bson:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt time.Time              `bson:"created_at" json:"created_at"`
}

// PatientInfo is the subset of the user document joined onto scans.
type PatientInfo struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// Scan is a medical record enriched with its classification and patient.
type Scan struct {
	MedicalRecord
	Status  string       `json:"status"` // Normal or Abnormal
	Patient *PatientInfo `json:"patient,omitempty"`
}

// PatientSummary is a patient row for the doctor's patient browser.
type PatientSummary struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	IsActive  bool      `json:"is_active"`
	ScanCount int64     `json:"scan_count"`
	CreatedAt time.Time `json:"created_at"`
}
