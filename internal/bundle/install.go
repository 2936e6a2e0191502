package bundle

import (
	"bytes"
	"crypto"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	goupdate "github.com/doitdistributed/go-update"

	// Registers SHA-512 for the install checksum.
	_ "crypto/sha512"
)

// ChecksumFunction verifies the installed runtime against the template copy.
const ChecksumFunction crypto.Hash = crypto.SHA512

var errHashUnavailable = errors.New("hash function unavailable")

// installExecutable writes the runtime from src to target through go-update,
// checking the written bytes against a SHA-512 of the source and applying mode.
func installExecutable(src io.Reader, target string, mode fs.FileMode) error {
	data, err := io.ReadAll(src)
	if err != nil {
		return fmt.Errorf("read runtime: %w", err)
	}

	checksum, err := checksumOf(data)
	if err != nil {
		return err
	}

	// go-update replaces an existing file, so the target has to be there first.
	placeholder, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY, mode)
	if err != nil {
		return fmt.Errorf("create %s: %w", target, err)
	}

	if err = placeholder.Close(); err != nil {
		return fmt.Errorf("create %s: %w", target, err)
	}

	options := goupdate.Options{
		TargetPath: target,
		TargetMode: mode,
		Checksum:   checksum,
		Hash:       ChecksumFunction,
	}

	if err = goupdate.Apply(bytes.NewReader(data), options); err != nil {
		return fmt.Errorf("install %s: %w", target, err)
	}

	oldFile := filepath.Join(filepath.Dir(target), "."+filepath.Base(target)+".old")
	if _, err = os.Stat(oldFile); err == nil {
		_ = os.Remove(oldFile)
	}

	return nil
}

func checksumOf(data []byte) ([]byte, error) {
	if !ChecksumFunction.Available() {
		return nil, fmt.Errorf("checksum calculation not possible: %w", errHashUnavailable)
	}

	hasher := ChecksumFunction.New()
	if _, err := hasher.Write(data); err != nil {
		return nil, fmt.Errorf("calculate checksum: %w", err)
	}

	return hasher.Sum(nil), nil
}
