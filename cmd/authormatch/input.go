package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/helixir/author-match/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// loadRecords reads a JSON array of records from path, or from stdin when
// path is "-". Every record must carry a full name.
func loadRecords(stdin io.Reader, path string) ([]domain.Record, error) {
	var r io.Reader
	if path == "-" {
		r = stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var records []domain.Record
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	for i, rec := range records {
		if err := validate.Struct(rec); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) && len(verrs) > 0 {
				return nil, domain.NewValidationError(
					fmt.Sprintf("[%d].%s", i, verrs[0].Field()),
					fmt.Sprintf("failed %q", verrs[0].Tag()),
				)
			}
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}

	return records, nil
}
