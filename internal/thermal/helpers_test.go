package thermal

func referenceVessel() Vessel {
	return Vessel{LiquidVolume: 5, ShellVolume: 0.001}
}

func referenceBoundary() Boundary {
	return Boundary{AmbientTemperature: 20, Coefficient: 15, SurfaceArea: 0.5}
}

func referenceHeating(opts ...func(*HeatingParams)) HeatingParams {
	p := HeatingParams{
		InitialTemperature: 50,
		TargetTemperature:  70,
		HeaterPower:        2000,
		Vessel:             referenceVessel(),
		Boundary:           referenceBoundary(),
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

func referenceCooling(opts ...func(*CoolingParams)) CoolingParams {
	p := CoolingParams{
		InitialTemperature: 70,
		FinalTemperature:   50,
		Vessel:             referenceVessel(),
		Boundary:           referenceBoundary(),
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

func referencePower(opts ...func(*PowerParams)) PowerParams {
	p := PowerParams{
		InitialTemperature: 50,
		TargetTemperature:  70,
		Duration:           300,
		Vessel:             referenceVessel(),
		Boundary:           referenceBoundary(),
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

func referenceBrewing(opts ...func(*BrewingParams)) BrewingParams {
	p := BrewingParams{
		InitialTemperature: 95,
		Vessel:             referenceVessel(),
		HeaterPower:        0,
		FlowRate:           5,
		Duration:           20,
		InletTemperature:   20,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}
