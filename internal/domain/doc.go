// Package domain models disaster-incident reports filed by the public.
//
// # Report Fields
//
//	Name         reporter name, 1–49 characters
//	NationalID   11 ASCII digits (CPF style), checked for format only
//	Description  free text, 1–199 characters
//	Latitude     WGS-84 degrees, -90 to 90
//	Longitude    WGS-84 degrees, -180 to 180
//
// Reports are built through [NewReport], so a Report value obtained anywhere
// else in the program already satisfies these rules. The national ID never
// changes after creation.
//
// # Errors
//
// Three error types cover every failure the registry can surface:
//
//	*ValidationError   bad user input; the operation is aborted
//	*CapacityError     the store cannot grow; existing data is untouched
//	*PersistenceError  the data file cannot be read or written
//
// Absence (no file yet, no matching report) is never an error.
package domain
