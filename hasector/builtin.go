package hasector

import "github.com/teranos/starmatch/galaxy"

func at(x, y, z float64) galaxy.Position { return galaxy.Position{X: x, Y: y, Z: z} }

// builtin lists the curated sectors. Smaller sectors come before the large
// Col 285 sphere so that containment finds the more specific one.
var builtin = []Sector{
	New("Core Sys Sector", at(0, 0, 0), 50),
	New("Trianguli Sector", at(60.85156, -47.94922, -81.32031), 50),
	New("Crucis Sector", at(75.91016, 8.32812, 44.83984), 60),
	New("Tascheter Sector", at(1.46094, -22.39844, -62.74023), 50),
	New("Hydrae Sector", at(77.57031, 84.07031, 69.47070), 60),
	New("Scorpii Sector", at(37.69141, 0.51953, 126.83008), 60),
	New("Shui Wei Sector", at(67.51172, -119.44922, 24.85938), 80),
	New("Shudun Sector", at(-3.51953, 34.16016, 12.98047), 30),
	New("Yin Sector", at(6.42969, 20.21094, -46.98047), 50),
	New("Jastreb Sector", at(-12.51953, 3.82031, -40.75), 50),
	New("Pegasi Sector", at(-170.26953, -95.17188, -19.18945), 100),
	New("Cephei Sector", at(-107.98047, 30.05078, -42.23047), 50),
	New("Bei Dou Sector", at(-33.64844, 72.48828, -20.64062), 40),
	New("Puppis Sector", at(56.69141, 5.23828, -28.21094), 50),
	New("Sharru Sector", at(37.87891, 60.19922, -34.04297), 50),
	New("Alrai Sector", at(-38.60156, 23.42188, 68.25977), 70),
	New("Lyncis Sector", at(-68.51953, 65.10156, -141.03906), 70),
	New("Tucanae Sector", at(105.60938, -218.21875, 159.47070), 100),
	New("Piscium Sector", at(-44.83984, -54.75391, -29.10938), 60),
	New("Herculis Sector", at(-73.0, 267.45703, -6.17188), 50),
	New("Antliae Sector", at(175.87109, 65.89062, 29.18945), 70),
	New("Arietis Sector", at(-72.16016, -76.82812, -135.36914), 80),
	New("Capricorni Sector", at(-58.37891, -119.78906, 107.34961), 60),
	New("Ceti Sector", at(-14.10156, -116.94922, -32.5), 70),
	New("Col 285 Sector", at(-53.46875, 56.27344, -19.35547), 326),
}

// Default returns a fresh collection of the built-in sectors.
func Default() *Collection {
	return NewCollection(builtin...)
}
