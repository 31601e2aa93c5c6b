package passenger

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Port is the embarkation port code
type Port string

const (
	PortCherbourg   Port = "C"
	PortQueenstown  Port = "Q"
	PortSouthampton Port = "S"
)

// Name returns the port's full name
func (p Port) Name() string {
	switch p {
	case PortCherbourg:
		return "Cherbourg"
	case PortQueenstown:
		return "Queenstown"
	case PortSouthampton:
		return "Southampton"
	default:
		return string(p)
	}
}

// Flag is a boolean that decodes from JSON true/false or 0/1
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "true", "1":
		*f = true
	case "false", "0", "null":
		*f = false
	default:
		return fmt.Errorf("invalid survived flag %s", data)
	}
	return nil
}

func (f Flag) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(f))
}

// Passenger is one record as returned by the passenger API
type Passenger struct {
	ID       int      `json:"PassengerId"`
	Name     string   `json:"Name"`
	Survived Flag     `json:"Survived"`
	Class    int      `json:"Pclass"`
	Sex      string   `json:"Sex"`
	Age      *float64 `json:"Age"`
	SibSp    int      `json:"SibSp"`
	Parch    int      `json:"Parch"`
	Ticket   string   `json:"Ticket"`
	Fare     float64  `json:"Fare"`
	Cabin    *string  `json:"Cabin"`
	Embarked *Port    `json:"Embarked"`
}

// ImportAck is the import endpoint's acknowledgement
type ImportAck struct {
	Message string `json:"message"`
}
