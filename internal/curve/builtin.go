package curve

// Builtin constructs the full curve catalog. It is the single place new
// curves are added; the registry it returns is treated as frozen by
// every consumer.
//
// Registration of the fixed catalog cannot collide, so Builtin panics on
// error rather than returning one — a failure here is a programming
// mistake caught by the tests, not a runtime condition.
func Builtin() *Registry {
	r := NewRegistry()

	mustRegister := func(id string, gen Generator, kind Kind, samples int, params Params) {
		if err := r.Register(id, gen, kind, samples, params); err != nil {
			panic(err)
		}
	}

	// Periodic
	mustRegister("sine", Sine, KindPeriodic, 64, Params{"cycles": 1})
	mustRegister("cosine", Cosine, KindPeriodic, 64, Params{"cycles": 1})
	mustRegister("square", Square, KindPeriodic, 64, Params{"cycles": 1, "duty": 0.5})
	mustRegister("triangle", Triangle, KindPeriodic, 64, Params{"cycles": 1})

	// Easing
	mustRegister("ease-in-quad", easing(easeQuad, easeIn), KindEasing, 32, nil)
	mustRegister("ease-out-quad", easing(easeQuad, easeOut), KindEasing, 32, nil)
	mustRegister("ease-in-out-quad", easing(easeQuad, easeInOut), KindEasing, 32, nil)
	mustRegister("ease-in-cubic", easing(easeCubic, easeIn), KindEasing, 32, nil)
	mustRegister("ease-out-cubic", easing(easeCubic, easeOut), KindEasing, 32, nil)
	mustRegister("ease-in-out-cubic", easing(easeCubic, easeInOut), KindEasing, 32, nil)
	mustRegister("ease-in-expo", easing(easeExpo, easeIn), KindEasing, 32, nil)
	mustRegister("ease-out-expo", easing(easeExpo, easeOut), KindEasing, 32, nil)
	mustRegister("ease-in-out-expo", easing(easeExpo, easeInOut), KindEasing, 32, nil)
	mustRegister("ease-in-sine", easing(easeSine, easeIn), KindEasing, 32, nil)
	mustRegister("ease-out-sine", easing(easeSine, easeOut), KindEasing, 32, nil)
	mustRegister("ease-in-out-sine", easing(easeSine, easeInOut), KindEasing, 32, nil)
	mustRegister("ease-in-back", easing(easeBack, easeIn), KindEasing, 32, nil)
	mustRegister("ease-out-back", easing(easeBack, easeOut), KindEasing, 32, nil)
	mustRegister("ease-in-out-back", easing(easeBack, easeInOut), KindEasing, 32, nil)

	// Motion
	mustRegister("bounce", Bounce, KindMotion, 48, nil)
	mustRegister("elastic", Elastic, KindMotion, 48, Params{"oscillations": 3, "damping": 6})
	mustRegister("anticipate", Anticipate, KindMotion, 48, Params{"tension": backOvershoot})
	mustRegister("overshoot", Overshoot, KindMotion, 48, Params{"tension": backOvershoot})

	// Musical
	mustRegister("beat-pulse", BeatPulse, KindMusical, 64, Params{"cycles": 4, "decay": 3})
	mustRegister("beat-accent", BeatAccent, KindMusical, 64, Params{"cycles": 4, "decay": 3, "accent": 0.4})
	mustRegister("beat-swell", BeatSwell, KindMusical, 64, Params{"cycles": 4})

	// Parametric
	mustRegister("bezier", Bezier, KindParametric, 48, Params{"c1": 0.25, "c2": 0.75})
	mustRegister("lissajous", Lissajous, KindParametric, 64, Params{"ratio": 2, "amplitude": 1, "freq": 1})
	mustRegister("perlin", PerlinNoise, KindParametric, 64, Params{"seed": 1, "freq": 2, "alpha": 2, "beta": 2})
	mustRegister("simplex", SimplexNoise, KindParametric, 64, Params{"seed": 1, "freq": 2})

	return r
}
