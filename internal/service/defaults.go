package service

import (
	"github.com/sakif/portfolio/internal/docstore"
	"github.com/sakif/portfolio/internal/model"
)

// Default content seeded into a new user's scope. Each call builds fresh maps
// so a caller can never mutate the next seed, and every createdAt is a
// server timestamp resolved when the store writes the record.

func defaultProfile() map[string]any {
	return map[string]any{
		"name":       "Your Name",
		"title":      "Student & Developer",
		"bio":        "I'm a passionate student interested in software development, mathematics, and competitive programming. I enjoy building applications and solving complex problems.",
		"location":   "California, USA",
		"email":      "you@example.com",
		"githubUrl":  "https://github.com/your-username",
		"websiteUrl": "https://example.com",
		"createdAt":  docstore.ServerTimestamp(),
		"updatedAt":  docstore.ServerTimestamp(),
	}
}

func defaultProjects() []map[string]any {
	return []map[string]any{
		{
			"name":         "Neural Network Visualizer",
			"description":  "An interactive web application that visualizes how neural networks learn and make predictions. Built with React and TensorFlow.js.",
			"technologies": []any{"React", "TypeScript", "TensorFlow.js", "D3.js"},
			"imageUrl":     "https://placehold.co/600x400/png",
			"githubUrl":    "https://github.com/example/neural-visualizer",
			"liveUrl":      "https://neural-visualizer.example.com",
			"featured":     true,
			"order":        0,
			"createdAt":    docstore.ServerTimestamp(),
		},
		{
			"name":         "Algorithmic Problem Solver",
			"description":  "A platform that helps users solve algorithmic problems by visualizing the solution process and providing step-by-step explanations.",
			"technologies": []any{"Python", "Django", "JavaScript", "AlgorithmX"},
			"imageUrl":     "https://placehold.co/600x400/png",
			"githubUrl":    "https://github.com/example/algo-solver",
			"liveUrl":      "https://algo-solver.example.com",
			"featured":     true,
			"order":        1,
			"createdAt":    docstore.ServerTimestamp(),
		},
		{
			"name":         "Smart Study Scheduler",
			"description":  "An application that creates optimized study schedules based on spaced repetition principles to maximize learning efficiency.",
			"technologies": []any{"React Native", "Firebase", "Redux", "Machine Learning"},
			"imageUrl":     "https://placehold.co/600x400/png",
			"githubUrl":    "https://github.com/example/study-scheduler",
			"liveUrl":      "https://study-scheduler.example.com",
			"featured":     true,
			"order":        2,
			"createdAt":    docstore.ServerTimestamp(),
		},
	}
}

func defaultAchievements() []map[string]any {
	return []map[string]any{
		{
			"title":       "National Merit Scholar Finalist",
			"description": "Recognized as a National Merit Scholar Finalist based on PSAT/NMSQT scores and academic achievements.",
			"year":        2023,
			"order":       0,
			"createdAt":   docstore.ServerTimestamp(),
		},
		{
			"title":       "USA Computing Olympiad - Gold Division",
			"description": "Qualified for the Gold Division in the USA Computing Olympiad by demonstrating advanced algorithmic problem-solving skills.",
			"year":        2022,
			"order":       1,
			"createdAt":   docstore.ServerTimestamp(),
		},
		{
			"title":       "AP Scholar with Distinction",
			"description": "Earned the AP Scholar with Distinction award by achieving an average score of 3.5 on all AP exams taken, and scores of 3 or higher on five or more of these exams.",
			"year":        2023,
			"order":       2,
			"createdAt":   docstore.ServerTimestamp(),
		},
		{
			"title":       "International Mathematics Competition - Silver Medal",
			"description": "Won a silver medal at the International Mathematics Competition for High School Students.",
			"year":        2022,
			"order":       3,
			"createdAt":   docstore.ServerTimestamp(),
		},
	}
}

func defaultEducation() []map[string]any {
	return []map[string]any{
		{
			"institution":  "Prestigious High School",
			"degree":       "High School Diploma",
			"fieldOfStudy": "Advanced STEM Curriculum",
			"startDate":    "2020",
			"endDate":      "2024",
			"present":      true,
			"description":  "Advanced coursework in Computer Science, Mathematics, and Physics. Participated in multiple research projects and programming competitions.",
			"grade":        "4.0",
			"order":        0,
			"createdAt":    docstore.ServerTimestamp(),
		},
		{
			"institution":  "Online Learning Platform",
			"degree":       "Certification",
			"fieldOfStudy": "Machine Learning & Artificial Intelligence",
			"startDate":    "2022",
			"endDate":      "2022",
			"present":      false,
			"description":  "Completed comprehensive certification program covering neural networks, computer vision, natural language processing, and reinforcement learning.",
			"order":        1,
			"createdAt":    docstore.ServerTimestamp(),
		},
	}
}

func defaultExtracurriculars() []map[string]any {
	return []map[string]any{
		{
			"title":        "Competitive Programming Club",
			"organization": "School Club",
			"description":  "Founded and lead the competitive programming club at school, mentoring peers in algorithm design and problem-solving techniques.",
			"startDate":    "2023",
			"endDate":      "",
			"present":      true,
			"role":         "Founder & President",
			"order":        0,
			"createdAt":    docstore.ServerTimestamp(),
		},
		{
			"title":        "Hackathon Participant",
			"organization": "Various Events",
			"description":  "Participated in multiple hackathons, developing innovative solutions under time constraints and collaborating with diverse teams.",
			"startDate":    "2022",
			"endDate":      "",
			"present":      true,
			"order":        1,
			"createdAt":    docstore.ServerTimestamp(),
		},
		{
			"title":        "Math Team",
			"organization": "School Team",
			"description":  "Member of the school's mathematics team, competing in regional and national competitions and strengthening problem-solving skills.",
			"startDate":    "2023",
			"endDate":      "",
			"present":      true,
			"order":        2,
			"createdAt":    docstore.ServerTimestamp(),
		},
	}
}

// defaultItems maps each list kind to its seed records.
var defaultItems = map[model.Kind]func() []map[string]any{
	model.KindProjects:         defaultProjects,
	model.KindAchievements:     defaultAchievements,
	model.KindEducation:        defaultEducation,
	model.KindExtracurriculars: defaultExtracurriculars,
}
