package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validStationsYAML() string {
	return `stations:
  - id: CORTE
    name: Corte de material
    line: L1
  - id: PRUEBA
    name: Prueba funcional
    line: L1
    final_inspection: true
  - id: INSPECCION_FINAL
    name: Inspeccion final
    line: L1
    final_inspection: true
`
}

func TestLoadStations(t *testing.T) {
	path := writeTempYAML(t, "stations.yaml", validStationsYAML())

	sf, err := LoadStations(path)
	require.NoError(t, err)

	require.Len(t, sf.Stations, 3)
	assert.Equal(t, []string{"PRUEBA", "INSPECCION_FINAL"}, sf.CriticalIDs())
}

func TestLoadStationsDuplicateID(t *testing.T) {
	path := writeTempYAML(t, "stations.yaml", `stations:
  - id: CORTE
    name: Corte
  - id: CORTE
    name: Corte duplicado
`)

	_, err := LoadStations(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestLoadStationsEmptyCatalog(t *testing.T) {
	path := writeTempYAML(t, "stations.yaml", "stations: []\n")

	_, err := LoadStations(path)
	assert.Error(t, err)
}

func TestLoadStationsMissingID(t *testing.T) {
	path := writeTempYAML(t, "stations.yaml", `stations:
  - name: Sin identificador
`)

	_, err := LoadStations(path)
	assert.Error(t, err)
}
