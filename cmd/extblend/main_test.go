package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/extblend/internal/core"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	codate := writeFile(t, dir, "codate.csv", "CustID,PromShip,LS,Ext Price\nHFCUSD,2024-01-01,2,100\nBOSCHH,2024-03-01,3,40\n")
	ivrv := writeFile(t, dir, "ivrv.csv", "Missed invoices\nCustID,ExtPrice\nHFCUSD,75\n")
	ar := writeFile(t, dir, "ar.csv", "AR\nCustomerID,IvcDate,ExtPrice\nHFCUSD,2024-01-02,20\nTotal,,20\n")
	out := filepath.Join(dir, "result.xlsx")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{
		"-codate", codate, "-ivrv", ivrv, "-arinvoice", ar,
		"-out", out, "-today", "2024-06-01",
	}, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), core.MetricBlended)
	assert.Contains(t, stdout.String(), "£215.00")
	assert.Contains(t, stdout.String(), "wrote "+out)

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()
	assert.Len(t, f.GetSheetList(), len(core.SheetContract()))
}

func TestRun_MissingInput(t *testing.T) {
	dir := t.TempDir()
	codate := writeFile(t, dir, "codate.csv", "CustID,PromShip,LS,Ext Price\nHFCUSD,2024-01-01,2,100\n")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-codate", codate, "-out", filepath.Join(dir, "x.xlsx")}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "FILE004")
	assert.NoFileExists(t, filepath.Join(dir, "x.xlsx"))
}

func TestRun_BadFlags(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, run(context.Background(), []string{"-today", "June"}, &stdout, &stderr))
	assert.Equal(t, 2, run(context.Background(), []string{"-nope"}, &stdout, &stderr))
}

func TestPrintError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantDetail bool
	}{
		{name: "mapped", err: fmt.Errorf("%w: Codate", core.ErrMissingInput), wantCode: "FILE004"},
		{name: "unmapped", err: errors.New("kaboom"), wantCode: "ERR000", wantDetail: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printError(&buf, tt.err)

			assert.Contains(t, buf.String(), tt.wantCode)
			if tt.wantDetail {
				assert.Contains(t, buf.String(), "detail: kaboom")
			} else {
				assert.NotContains(t, buf.String(), "detail:")
			}
		})
	}
}
