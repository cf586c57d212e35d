package toolenv

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const profile = `# Geant4 data sets
export G4NEUTRONHPDATA=/usr/share/geant4/data/G4NDL4.6
export G4LEDATA="/usr/share/geant4/data/G4EMLOW7.13"
  export G4LEVELGAMMADATA='/usr/share/geant4/data/PhotonEvaporation5.7'
export PATH=/opt/geant4/bin:$PATH
G4NOTEXPORTED=1
export G4BROKEN
`

func TestParse(t *testing.T) {
	env := map[string]string{}
	require.NoError(t, Parse(strings.NewReader(profile), env))

	assert.Equal(t, map[string]string{
		"G4NEUTRONHPDATA":  "/usr/share/geant4/data/G4NDL4.6",
		"G4LEDATA":         "/usr/share/geant4/data/G4EMLOW7.13",
		"G4LEVELGAMMADATA": "/usr/share/geant4/data/PhotonEvaporation5.7",
	}, env)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "geant4-a.sh"), []byte("export G4A=1\nexport G4B=1\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "geant4-b.sh"), []byte("export G4B=2\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.sh"), []byte("export G4C=3\n"), 0644))

	env, err := Load(filepath.Join(dir, "geant4*.sh"), filepath.Join(dir, "none*.sh"))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"G4A": "1", "G4B": "2"}, env)
}

func TestLoad_BadGlob(t *testing.T) {
	_, err := Load("[")
	assert.Error(t, err)
}
