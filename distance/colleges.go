package distance

import "github.com/poiesic/coursefinder/core"

// DefaultColleges returns the New Jersey community colleges that appear in
// the transfer-credit table, with campus coordinates.
func DefaultColleges() []core.College {
	return []core.College{
		{Name: "Rowan College of South Jersey - Cumberland Campus", Location: core.Location{Latitude: 39.4794, Longitude: -75.0289}},
		{Name: "Atlantic Cape Community College", Location: core.Location{Latitude: 39.4572, Longitude: -74.7229}},
		{Name: "Bergen Community College", Location: core.Location{Latitude: 40.9367, Longitude: -74.0739}},
		{Name: "Brookdale Community College", Location: core.Location{Latitude: 40.3294, Longitude: -74.1089}},
		{Name: "Camden County College", Location: core.Location{Latitude: 39.8008, Longitude: -75.0475}},
		{Name: "County College of Morris", Location: core.Location{Latitude: 40.8484, Longitude: -74.5898}},
		{Name: "Essex County College", Location: core.Location{Latitude: 40.7484, Longitude: -74.1724}},
		{Name: "Hudson County Community College", Location: core.Location{Latitude: 40.7228, Longitude: -74.0543}},
		{Name: "Mercer County Community College", Location: core.Location{Latitude: 40.3094, Longitude: -74.6689}},
		{Name: "Middlesex College", Location: core.Location{Latitude: 40.5194, Longitude: -74.3889}},
		{Name: "Ocean County College", Location: core.Location{Latitude: 39.9794, Longitude: -74.1789}},
		{Name: "Passaic County Community College", Location: core.Location{Latitude: 40.9167, Longitude: -74.1667}},
		{Name: "Raritan Valley Community College", Location: core.Location{Latitude: 40.5794, Longitude: -74.6889}},
		{Name: "Rowan College at Burlington County", Location: core.Location{Latitude: 39.9594, Longitude: -74.9189}},
		{Name: "Rowan College of South Jersey - Gloucester Campus", Location: core.Location{Latitude: 39.7394, Longitude: -75.0089}},
		{Name: "Salem Community College", Location: core.Location{Latitude: 39.6794, Longitude: -75.4489}},
		{Name: "Sussex County Community College", Location: core.Location{Latitude: 41.0594, Longitude: -74.7589}},
		{Name: "UCNJ Union College of Union County, NJ", Location: core.Location{Latitude: 40.6494, Longitude: -74.3089}},
		{Name: "Warren County Community College", Location: core.Location{Latitude: 40.7594, Longitude: -75.0089}},
	}
}
