package ledger

import (
	"testing"

	roboterr "sjsage522/invoicerobot/pkg/errors"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columns = []string{"NUMERO_DA_FATURA", "DATA_DA_FATURA", "URL_DA_FATURA"}

func TestCreateWritesHeader(t *testing.T) {
	fs := afero.NewMemMapFs()
	l, err := Create(fs, "/robot/RESULTS/FATURAS_05-03-2024_10.00.00.csv", columns)
	require.NoError(t, err)
	defer l.Close()

	rows, err := ReadAll(fs, l.Path())
	require.NoError(t, err)
	assert.Equal(t, [][]string{columns}, rows)
}

func TestAppendIsVisibleBeforeClose(t *testing.T) {
	fs := afero.NewMemMapFs()
	l, err := Create(fs, "/robot/RESULTS/ledger.csv", columns)
	require.NoError(t, err)
	defer l.Close()

	require.NoError(t, l.Append([]string{"1001", "04/03/2024", "https://x/a.jpg"}))

	rows, err := ReadAll(fs, l.Path())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"1001", "04/03/2024", "https://x/a.jpg"}, rows[1])

	require.NoError(t, l.Append([]string{"1002", "05/03/2024", "https://x/b,c.jpg"}))
	rows, err = ReadAll(fs, l.Path())
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "https://x/b,c.jpg", rows[2][2])
}

func TestAppendRejectsWrongWidth(t *testing.T) {
	fs := afero.NewMemMapFs()
	l, err := Create(fs, "/robot/ledger.csv", columns)
	require.NoError(t, err)
	defer l.Close()

	err = l.Append([]string{"only-one"})
	require.Error(t, err)
	assert.True(t, roboterr.Is(err, roboterr.ErrorTypeLedger))
}

func TestCreateFailsOnReadOnlyFs(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	_, err := Create(fs, "/robot/ledger.csv", columns)
	require.Error(t, err)
	assert.True(t, roboterr.Is(err, roboterr.ErrorTypeLedger))
}
