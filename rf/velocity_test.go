package rf

import (
	"errors"
	"math"
	"testing"
)

func TestPhaseVelocity_WaveNumber(t *testing.T) {
	got, err := PhaseVelocity(WaveNumber{CircFreq: 6e8, PhaseConstant: 3})
	if err != nil {
		t.Fatalf("PhaseVelocity error: %v", err)
	}
	if got != 6e8/3 {
		t.Fatalf("PhaseVelocity(ω/β) = %v, want %v", got, 6e8/3)
	}
}

func TestPhaseVelocity_LosslessLine(t *testing.T) {
	l, c := 250e-9, 100e-12
	got, err := PhaseVelocity(LosslessLine{Inductance: l, Capacitance: c})
	if err != nil {
		t.Fatalf("PhaseVelocity error: %v", err)
	}
	if want := 1 / math.Sqrt(l*c); got != want {
		t.Fatalf("PhaseVelocity(L, C) = %v, want %v", got, want)
	}
}

func TestPhaseVelocity_VacuumIsLightspeed(t *testing.T) {
	got, err := PhaseVelocity(LosslessLine{Inductance: VacuumPermeability, Capacitance: VacuumPermittivity})
	if err != nil {
		t.Fatalf("PhaseVelocity error: %v", err)
	}
	if !approxEqual(got, Lightspeed, 1e-12) {
		t.Fatalf("PhaseVelocity(μ0, ε0) = %v, want %v", got, Lightspeed)
	}
}

func TestPhaseVelocity_Errors(t *testing.T) {
	if _, err := PhaseVelocity(nil); !errors.Is(err, ErrInvalidArguments) {
		t.Fatalf("PhaseVelocity(nil) err = %v, want ErrInvalidArguments", err)
	}
	if _, err := PhaseVelocity(WaveNumber{CircFreq: 1}); !errors.Is(err, ErrDomain) {
		t.Fatalf("PhaseVelocity(β=0) err = %v, want ErrDomain", err)
	}
	if _, err := PhaseVelocity(LosslessLine{Inductance: -1, Capacitance: 1}); !errors.Is(err, ErrDomain) {
		t.Fatalf("PhaseVelocity(L<0) err = %v, want ErrDomain", err)
	}
}

func TestPhaseVelocityArgs_Source(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    PhaseVelocityArgs
		want    PhaseVelocitySource
		wantErr bool
	}{
		{name: "wave number", args: PhaseVelocityArgs{CircFreq: ptr(2.0), PhaseConstant: ptr(1.0)}, want: WaveNumber{CircFreq: 2, PhaseConstant: 1}},
		{name: "zero circ freq is present", args: PhaseVelocityArgs{CircFreq: ptr(0.0), PhaseConstant: ptr(1.0)}, want: WaveNumber{CircFreq: 0, PhaseConstant: 1}},
		{name: "line", args: PhaseVelocityArgs{Inductance: ptr(1e-6), Capacitance: ptr(1e-10)}, want: LosslessLine{Inductance: 1e-6, Capacitance: 1e-10}},
		{name: "nothing", args: PhaseVelocityArgs{}, wantErr: true},
		{name: "circ freq only", args: PhaseVelocityArgs{CircFreq: ptr(1.0)}, wantErr: true},
		{name: "capacitance only", args: PhaseVelocityArgs{Capacitance: ptr(1.0)}, wantErr: true},
		{name: "mixed partials", args: PhaseVelocityArgs{CircFreq: ptr(1.0), Inductance: ptr(1.0)}, wantErr: true},
		{name: "everything", args: PhaseVelocityArgs{CircFreq: ptr(1.0), PhaseConstant: ptr(1.0), Inductance: ptr(1.0), Capacitance: ptr(1.0)}, wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := tc.args.Source()
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidArguments) {
					t.Fatalf("Source err = %v, want ErrInvalidArguments", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Source error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("Source = %#v, want %#v", got, tc.want)
			}
		})
	}
}
