package ranking

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loc(district, province, department string) Location {
	return Location{
		District:    district,
		Province:    province,
		Department:  department,
		DisplayName: fmt.Sprintf("%s, %s, %s", district, province, department),
	}
}

func TestScoreLocationTiers(t *testing.T) {
	exact := loc("Lince", "Huaral", "Ica")
	prefix := loc("Lincemar", "Huaral", "Ica")
	substring := loc("Villa Lince", "Huaral", "Ica")

	se, sp, ss := ScoreLocation(exact, "lince"), ScoreLocation(prefix, "lince"), ScoreLocation(substring, "lince")
	assert.Greater(t, se, sp)
	assert.Greater(t, sp, ss)
	assert.Greater(t, ss, 0)

	assert.Equal(t, 100+10, se, "district exact plus display name bonus")
	assert.Equal(t, 0, ScoreLocation(exact, "cusco"))
	assert.Equal(t, 0, ScoreLocation(exact, "  "))
}

func TestScoreLocationSecondaryFields(t *testing.T) {
	l := Location{District: "Miraflores", Province: "Lima", Department: "Lima", DisplayName: "Miraflores, Lima, Lima", Code: "150122"}

	assert.Equal(t, 50+30+10, ScoreLocation(l, "LIMA"))
	assert.Equal(t, 35+15+10, ScoreLocation(l, "lim"))
	assert.Equal(t, 5, ScoreLocation(l, "1501"))
}

func TestScoreIsDeterministic(t *testing.T) {
	l := loc("San Isidro", "Lima", "Lima")
	c := CallingCode{Dial: "+51", Name: "Perú", ISO: "PE"}
	for range 50 {
		assert.Equal(t, ScoreLocation(l, "san"), ScoreLocation(l, "san"))
		assert.Equal(t, ScoreCallingCode(c, "pe"), ScoreCallingCode(c, "pe"))
	}
}

func TestRankLocations(t *testing.T) {
	t.Run("short terms yield an empty set", func(t *testing.T) {
		results := []Location{loc("Lima", "Lima", "Lima")}
		assert.Empty(t, RankLocations(results, "li"))
		assert.Empty(t, RankLocations(results, "  li  "))
		assert.NotNil(t, RankLocations(results, ""))
	})

	t.Run("orders by score then display name", func(t *testing.T) {
		results := []Location{
			loc("Villa San Juan", "Lima", "Lima"),
			loc("San Juan", "Lima", "Lima"),
			loc("San Juan de Lurigancho", "Lima", "Lima"),
			loc("San Juan de Miraflores", "Lima", "Lima"),
			loc("Chorrillos", "Lima", "Lima"),
		}

		ranked := RankLocations(results, "san juan")
		require.Len(t, ranked, 4)
		assert.Equal(t, "San Juan", ranked[0].District)
		assert.Equal(t, "San Juan de Lurigancho", ranked[1].District)
		assert.Equal(t, "San Juan de Miraflores", ranked[2].District)
		assert.Equal(t, "Villa San Juan", ranked[3].District)
	})

	t.Run("keeps the top twenty", func(t *testing.T) {
		results := make([]Location, 0, 30)
		for i := range 30 {
			results = append(results, loc(fmt.Sprintf("Santa %02d", i), "Lima", "Lima"))
		}
		ranked := RankLocations(results, "santa")
		require.Len(t, ranked, MaxLocations)
		assert.Equal(t, "Santa 00", ranked[0].District)
	})
}

func TestRankCallingCodes(t *testing.T) {
	all := CallingCodes()
	require.Len(t, all, 17)

	t.Run("empty term returns the full set", func(t *testing.T) {
		assert.Equal(t, all, RankCallingCodes(all, " "))
	})

	t.Run("name prefix ranks first", func(t *testing.T) {
		ranked := RankCallingCodes(all, "pe")
		require.NotEmpty(t, ranked)
		assert.Equal(t, "PE", ranked[0].ISO)
	})

	t.Run("dial prefix ties break by name", func(t *testing.T) {
		ranked := RankCallingCodes(all, "+50")
		require.Len(t, ranked, 6)
		assert.Equal(t, "Costa Rica", ranked[0].Name)
		assert.Equal(t, "Panamá", ranked[len(ranked)-1].Name)
	})

	t.Run("no match is empty", func(t *testing.T) {
		assert.Empty(t, RankCallingCodes(all, "zz"))
	})
}

func TestKnownDial(t *testing.T) {
	assert.True(t, KnownDial(DefaultDial))
	assert.False(t, KnownDial("+999"))
}
