// Package console runs the interactive numbered menu on top of command.Service.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/couchcryptid/disaster-report-registry/internal/command"
	"github.com/couchcryptid/disaster-report-registry/internal/domain"
	"github.com/couchcryptid/disaster-report-registry/internal/store"
)

// Menu options, numbered as shown to the user.
const (
	optRegister = "1"
	optNearby   = "2"
	optSort     = "3"
	optFind     = "4"
	optSave     = "5"
	optExit     = "6"
)

const menuText = `
Disaster Report Registry
1. Register report
2. List nearby reports (up to 10 km)
3. Sort reports by name
4. Find report by national ID
5. Save reports to file
6. Exit
Choice: `

// Console reads commands from in and writes prompts and results to out.
type Console struct {
	svc *command.Service
	in  *bufio.Reader
	out io.Writer
}

// maxInputLine bounds a single line of user input. It is far above the longest
// valid field.
const maxInputLine = 4096

// New creates a Console bound to svc.
func New(svc *command.Service, in io.Reader, out io.Writer) *Console {
	return &Console{svc: svc, in: bufio.NewReader(in), out: out}
}

// errEOF signals that input ended while a prompt was waiting.
// Read failures are handled the same way.
var errEOF = errors.New("end of input")

// errInputTooLong rejects a line longer than maxInputLine. The rest of the line
// is discarded and the menu keeps running.
var errInputTooLong = &domain.ValidationError{Field: "input", Reason: "too long", Limit: maxInputLine}

// Run shows the menu until the user exits or input ends. Both paths flush the
// store to the data file; the returned error is the result of that final save.
func (c *Console) Run() error {
	for {
		c.printf("%s", menuText)
		choice, err := c.readLine()
		if errors.Is(err, errInputTooLong) {
			c.reportError(err)
			continue
		}
		if err != nil {
			c.printf("\n")
			return c.exit()
		}

		switch strings.TrimSpace(choice) {
		case optRegister:
			err = c.register()
		case optNearby:
			err = c.nearby()
		case optSort:
			c.svc.Sort()
			c.printf("Reports sorted by name.\n")
		case optFind:
			err = c.find()
		case optSave:
			c.save()
		case optExit:
			return c.exit()
		default:
			c.printf("Invalid option.\n")
		}

		if errors.Is(err, errInputTooLong) {
			c.reportError(err)
			continue
		}
		if err != nil {
			// Input is gone; treat it like the exit option.
			c.printf("\n")
			return c.exit()
		}
	}
}

func (c *Console) register() error {
	name, err := c.prompt("Name: ")
	if err != nil {
		return err
	}
	id, err := c.prompt("National ID (digits only): ")
	if err != nil {
		return err
	}
	if !domain.IsValidNationalID(id) {
		c.printf("Invalid national ID!\n")
		return nil
	}
	description, err := c.prompt("Report description: ")
	if err != nil {
		return err
	}
	lat, lon, ok, err := c.promptCoordinates("Latitude: ", "Longitude: ")
	if err != nil || !ok {
		return err
	}

	_, err = c.svc.Register(command.Registration{
		Name:        name,
		NationalID:  id,
		Description: description,
		Latitude:    lat,
		Longitude:   lon,
	})
	if err != nil {
		c.reportError(err)
		return nil
	}
	c.printf("Report registered successfully!\n")
	return nil
}

func (c *Console) nearby() error {
	lat, lon, ok, err := c.promptCoordinates("Your latitude: ", "Your longitude: ")
	if err != nil || !ok {
		return err
	}

	matches, err := c.svc.FindNearby(lat, lon)
	if err != nil {
		c.reportError(err)
		return nil
	}

	c.printf("\nReports within %.0f km:\n", command.NearbyRadiusKm)
	if len(matches) == 0 {
		c.printf("No reports found.\n")
		return nil
	}
	for _, m := range matches {
		c.printMatch(m)
	}
	return nil
}

func (c *Console) find() error {
	id, err := c.prompt("National ID to search: ")
	if err != nil {
		return err
	}

	r, ok, err := c.svc.FindByID(id)
	switch {
	case err != nil:
		c.reportError(err)
	case !ok:
		c.printf("No report found for the given national ID.\n")
	default:
		c.printf("Report found:\n")
		c.printf("Name: %s\n", r.Name)
		c.printf("Description: %s\n", r.Description)
		c.printf("Location: (%.6f, %.6f)\n", r.Latitude, r.Longitude)
	}
	return nil
}

func (c *Console) save() {
	if err := c.svc.Save(); err != nil {
		c.reportError(err)
		return
	}
	c.printf("Reports saved to '%s'\n", c.svc.Path())
}

func (c *Console) exit() error {
	if err := c.svc.Exit(); err != nil {
		c.reportError(err)
		return err
	}
	c.printf("Reports saved to '%s'\nExiting...\n", c.svc.Path())
	return nil
}

func (c *Console) printMatch(m store.Match) {
	c.printf("Report %d:\n", m.Position+1)
	c.printf("Name: %s\n", m.Report.Name)
	c.printf("National ID: %s\n", m.Report.NationalID)
	c.printf("Description: %s\n", m.Report.Description)
	c.printf("Location: (%.6f, %.6f)\n", m.Report.Latitude, m.Report.Longitude)
	c.printf("Distance: %.2f km\n\n", m.DistanceKm)
}

// promptCoordinates reads a latitude and longitude. ok is false when either
// value was not a number; the problem has already been reported to the user.
func (c *Console) promptCoordinates(latPrompt, lonPrompt string) (lat, lon float64, ok bool, err error) {
	lat, ok, err = c.promptFloat(latPrompt, "latitude")
	if err != nil || !ok {
		return 0, 0, false, err
	}
	lon, ok, err = c.promptFloat(lonPrompt, "longitude")
	if err != nil || !ok {
		return 0, 0, false, err
	}
	return lat, lon, true, nil
}

func (c *Console) promptFloat(prompt, field string) (float64, bool, error) {
	s, err := c.prompt(prompt)
	if err != nil {
		return 0, false, err
	}
	v, perr := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if perr != nil {
		c.reportError(&domain.ValidationError{Field: field, Reason: "not a number"})
		return 0, false, nil
	}
	return v, true, nil
}

func (c *Console) prompt(text string) (string, error) {
	c.printf("%s", text)
	return c.readLine()
}

func (c *Console) readLine() (string, error) {
	var line []byte
	tooLong := false
	for {
		chunk, err := c.in.ReadSlice('\n')
		if !tooLong {
			if len(line)+len(chunk) > maxInputLine {
				tooLong = true
				line = nil
			} else {
				line = append(line, chunk...)
			}
		}

		switch {
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case err == nil, errors.Is(err, io.EOF):
			if tooLong {
				return "", errInputTooLong
			}
			if err != nil && len(line) == 0 {
				return "", errEOF
			}
			return strings.TrimRight(string(line), "\r\n"), nil
		default:
			return "", fmt.Errorf("read input: %w", err)
		}
	}
}

func (c *Console) reportError(err error) {
	var verr *domain.ValidationError
	var capErr *domain.CapacityError
	var perr *domain.PersistenceError
	switch {
	case errors.As(err, &verr):
		c.printf("Rejected: %s\n", verr.Error())
	case errors.As(err, &capErr):
		c.printf("Could not store report: %s\n", capErr.Error())
	case errors.As(err, &perr):
		c.printf("Error writing file: %s\n", perr.Error())
	default:
		c.printf("Error: %s\n", err.Error())
	}
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...) //nolint:errcheck // console output is best-effort
}
