package model

import "time"

// Status classifies how close a vehicle is to its next scheduled service.
type Status int

const (
	// StatusUnknown means neither the time nor the distance shortfall could
	// be computed for the vehicle.
	StatusUnknown Status = iota
	// StatusOnTrack means the vehicle is inside both service intervals.
	StatusOnTrack
	// StatusAttention means the vehicle is within the warning window of at
	// least one interval.
	StatusAttention
	// StatusOverdue means at least one interval has already been exceeded.
	StatusOverdue
)

func (s Status) String() string {
	switch s {
	case StatusOverdue:
		return "overdue"
	case StatusAttention:
		return "attention"
	case StatusOnTrack:
		return "on_track"
	default:
		return "unknown"
	}
}

// VehicleRecord is the resolved attribute snapshot for one distinct plate.
// It is built once per run by the identity resolver and never mutated.
type VehicleRecord struct {
	Plate       string // canonical plate, unique per vehicle
	Responsible string
	Unit        string
	Region      string
	Division    string
	Site        string
	Make        string
	Model       string
	ModelYear   int // 0 when unknown
}

// ServiceRecord is one maintenance log entry for a vehicle.
type ServiceRecord struct {
	Plate    string
	Date     time.Time
	HasDate  bool
	Odometer float64
	HasOdo   bool
	Workshop string
	Cost     float64
	HasCost  bool
}

// FuelRecord is one fuel-transaction entry carrying an odometer or
// hour-meter reading. The series is read-only reference data.
type FuelRecord struct {
	Plate    string
	Date     time.Time
	HasDate  bool
	Odometer float64
	HasOdo   bool
}

// Reading is a dated odometer value surfaced by the fuel correlator.
type Reading struct {
	Date     time.Time
	Odometer float64
	HasOdo   bool
}

// Projection is the per-vehicle output row of one engine run.
type Projection struct {
	Vehicle VehicleRecord

	BaselineDate       time.Time
	HasBaselineDate    bool
	BaselineFromIntake bool
	Workshop           string
	ServiceCost        float64
	HasServiceCost     bool

	NextDueDate    time.Time
	HasNextDueDate bool
	DaysRemaining  int
	HasDays        bool

	BaselineOdometer   float64
	BaselineOdoDate    time.Time
	HasBaselineOdoDate bool
	NextDueOdometer    float64

	LatestOdometer    float64
	HasLatestOdo      bool
	LatestOdoDate     time.Time
	HasLatestDate     bool
	DistanceRemaining float64
	HasDistance       bool

	Status Status

	RenewalNow       bool
	RenewalAtNextDue bool

	// EffectiveDays folds the distance shortfall into days using the
	// configured daily-distance rate and takes the tighter of the two
	// criteria. Advisory only; it never drives Status.
	EffectiveDays    int
	HasEffectiveDays bool
}

// AnomalyKind identifies a cross-source inconsistency class.
type AnomalyKind string

const (
	// AnomalyTemporalInversion flags a latest fuel reading dated before the
	// nearest-to-baseline reading.
	AnomalyTemporalInversion AnomalyKind = "temporal_inversion"
	// AnomalyMileageRegression flags a latest odometer below the baseline
	// odometer.
	AnomalyMileageRegression AnomalyKind = "mileage_regression"
)

// Anomaly is an informational data-quality flag. It never alters the
// projection it describes.
type Anomaly struct {
	Plate  string
	Kind   AnomalyKind
	Detail string
}
