//go:build unit

package paysig_test

import (
	"strings"
	"testing"

	"staybook/internal/pkg/paysig"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	primarySalt = "Vsv8SrrQf41sn7zWycxMt18LinszCTWs"
	rotatedSalt = "9uVJLX41k7TslJmxB0AhcYVCXKs2dbpq"
)

func gatewayFields() paysig.Fields {
	return paysig.Fields{
		Key:         "OpJrSH",
		TxnID:       "PW2509140825550020",
		Amount:      "500.00",
		ProductInfo: "Booking PW2509140036",
		FirstName:   "Zuber",
		Email:       "zuber@tdd.com",
	}
}

func TestRequestHash(t *testing.T) {
	t.Run("matches gateway reference digest", func(t *testing.T) {
		fields := paysig.Fields{
			Key:         "OpJrSH",
			TxnID:       "PW2509140748220017",
			Amount:      "500.00",
			ProductInfo: "Booking PW2509140030",
			FirstName:   "ZUber",
			Email:       "iamzuer@gmail.com",
		}

		got := paysig.RequestHash(fields, primarySalt)
		assert.Equal(t,
			"efda723fc9b4d5b1b18fbad7e230ff5c080f49c50dbc238a172c5fc65425e6131f146fc7e9043bbd25661c44db543b8d21c3ddfce9c71b43193cce67bfd3387b",
			got)
	})

	t.Run("digest depends on the salt", func(t *testing.T) {
		fields := gatewayFields()

		assert.Equal(t,
			"b8d95a708e1e1742918388fee24739081c390081efa24f4d5c19fb76fd0191b3be8330bf142b8ccfea73515102c2bc55fc140db8cdd30acfebc9c71c7355b0f3",
			paysig.RequestHash(fields, primarySalt))
		assert.Equal(t,
			"3910c0985ffcdc7e656eee3994483cc8334a58b09447bb8ef5d09d35be97db94f40dd6e7c2fa709fec4b4cc4c57d3e630debe115356faaaadfcd4099905f3838",
			paysig.RequestHash(fields, rotatedSalt))
	})

	t.Run("empty user fields are encoded, not omitted", func(t *testing.T) {
		fields := gatewayFields()
		withUDF := fields
		withUDF.UDF[0] = "mobile-app"

		assert.NotEqual(t, paysig.RequestHash(fields, primarySalt), paysig.RequestHash(withUDF, primarySalt))
	})
}

func TestResponseHashCandidates(t *testing.T) {
	fields := gatewayFields()

	t.Run("cross-product over salts, blank styles and trimming", func(t *testing.T) {
		candidates := paysig.ResponseHashCandidates(fields, "success", []string{primarySalt, rotatedSalt})
		// 2 salts x 2 blank styles x trimmed/untrimmed
		require.Len(t, candidates, 8)

		for _, c := range candidates {
			assert.Len(t, c, 128)
			assert.Equal(t, strings.ToLower(c), c)
		}
	})

	t.Run("contains both blank-count conventions", func(t *testing.T) {
		candidates := paysig.ResponseHashCandidates(fields, "success", []string{primarySalt})

		assert.Contains(t, candidates,
			"8614063beeeee265bb1eff1824008302e9c7177e07ed06fd2ae702bdd61675d096f523d4b1481b18cab5fa16481585488ed60e167ee02121e63dd0baf5b78f77")
		assert.Contains(t, candidates,
			"9466ae84f5e482d7a533ac1bf034570045a062cb6a3d1652d760fd314731222af3dad6edaf71aee1314cb988b772a827670b5eddb94875ee26d90ff10836ebd0")
	})
}

func TestVerifyResponseHash(t *testing.T) {
	fields := gatewayFields()
	salts := []string{primarySalt, rotatedSalt}

	tests := []struct {
		name     string
		received string
		mutate   func(*paysig.Fields)
		want     bool
	}{
		{
			name:     "reserved-blank encoding under primary salt",
			received: "8614063beeeee265bb1eff1824008302e9c7177e07ed06fd2ae702bdd61675d096f523d4b1481b18cab5fa16481585488ed60e167ee02121e63dd0baf5b78f77",
			want:     true,
		},
		{
			name:     "per-field blank encoding under primary salt",
			received: "9466ae84f5e482d7a533ac1bf034570045a062cb6a3d1652d760fd314731222af3dad6edaf71aee1314cb988b772a827670b5eddb94875ee26d90ff10836ebd0",
			want:     true,
		},
		{
			name:     "rotated salt still verifies",
			received: "b68ac880697ad182fa38202e5acb6b8234cf6e6ca8e9481bbc21a009e0f2bf519a22f57a091666b786d89e5b240e80831a1334445f252f6c8d0090ce088b2dfb",
			want:     true,
		},
		{
			name:     "uppercase received digest is normalized",
			received: "8614063BEEEEE265BB1EFF1824008302E9C7177E07ED06FD2AE702BDD61675D096F523D4B1481B18CAB5FA16481585488ED60E167EE02121E63DD0BAF5B78F77",
			want:     true,
		},
		{
			name:     "whitespace-padded email verifies via trimmed variant",
			received: "9466ae84f5e482d7a533ac1bf034570045a062cb6a3d1652d760fd314731222af3dad6edaf71aee1314cb988b772a827670b5eddb94875ee26d90ff10836ebd0",
			mutate:   func(f *paysig.Fields) { f.Email = " zuber@tdd.com " },
			want:     true,
		},
		{
			name:     "tampered amount fails every candidate",
			received: "8614063beeeee265bb1eff1824008302e9c7177e07ed06fd2ae702bdd61675d096f523d4b1481b18cab5fa16481585488ed60e167ee02121e63dd0baf5b78f77",
			mutate:   func(f *paysig.Fields) { f.Amount = "5000.00" },
			want:     false,
		},
		{
			name:     "empty digest never verifies",
			received: "",
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := fields
			if tt.mutate != nil {
				tt.mutate(&f)
			}
			assert.Equal(t, tt.want, paysig.VerifyResponseHash(tt.received, f, "success", salts))
		})
	}
}
