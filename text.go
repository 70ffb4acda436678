package main

// Job is one entry on the info page.
type Job struct {
	Title   string
	Company string
	Period  string
	Summary string
}

var (
	AboutMe = []string{
		`I specialize in building inclusive digital products that seamlessly connect human needs with business
	goals. With over 8 years of experience, I believe in the power of design to transform products from merely
	functional to truly delightful.`,
		`My approach draws on a deep commitment to understanding user behavior, continuous research, and crafting
	solutions that balance aesthetics with practicality. I've had the privilege of working with diverse teams across
	various sectors, from fintech to transportation, bringing a wealth of perspective to each project.`,
	}

	Experience = []Job{
		{
			Title:   "Senior Product Designer (UX/UI)",
			Company: "nCino Inc formerly DocFox",
			Period:  "Mar 2019 - Present",
			Summary: `Leading UX/UI initiatives for fintech compliance software. Conducting user research, creating
	wireframes, and developing high-fidelity prototypes.`,
		},
		{
			Title:   "Senior Product Designer (UX/UI)",
			Company: "Whereismytransport",
			Period:  "Jan 2017 - Feb 2019",
			Summary: `Designed user experiences for public transportation mapping software. Created user flows,
	wireframes, and visual designs for mobile applications.`,
		},
		{
			Title:   "Senior Product Designer (UX/UI)",
			Company: "Basalt Technologies",
			Period:  "Jan 2015 - Dec 2016",
			Summary: `Designed interfaces for enterprise software applications. Conducted user testing and
	implemented design thinking methodologies to improve product usability.`,
		},
	}

	// HeroTitles alternate on the home page. An empty word is a line break.
	HeroTitles = [][]string{
		{"Product", "", "Designer"},
		{"AI", "UX", "", "Engineer"},
	}

	Tagline = `Great products start by bridging the gap between ideas and user experience. I'm passionate about
	transforming concepts into intuitive user experiences.`
)
