package models

import (
	"database/sql"
	"fmt"
)

var starterJobs = []CreateJobRequest{
	{
		Title:       "Performance Analyst",
		Company:     "Sports Excellence Center",
		Location:    "Mumbai, India",
		Type:        "Full-time",
		Salary:      "₹8,00,000 - ₹12,00,000 /year",
		Description: "We are seeking a Performance Analyst to join our team to help athletes reach their peak performance through data-driven insights.",
		Responsibilities: []string{
			"Collect and analyze performance data from athletes",
			"Create reports and visualizations for coaches and athletes",
			"Recommend performance improvements based on data analysis",
		},
		Requirements: []string{
			"Bachelor's degree in Sports Science, Statistics, or related field",
			"2+ years of experience in sports performance analysis",
			"Proficiency in data analysis tools and software",
		},
		Tags: []string{"Performance Analysis", "Data", "Sports Science"},
	},
	{
		Title:       "Assistant Coach - Cricket",
		Company:     "National Cricket Academy",
		Location:    "Bangalore, India",
		Type:        "Full-time",
		Salary:      "₹10,00,000 - ₹15,00,000 /year",
		Description: "The National Cricket Academy is looking for an Assistant Coach to help develop the next generation of cricket talent in India.",
		Responsibilities: []string{
			"Assist the head coach in training sessions",
			"Develop training programs for young athletes",
			"Provide technical and tactical guidance to players",
		},
		Requirements: []string{
			"Former professional cricketer preferred",
			"BCCI Level B coaching certification or equivalent",
			"3+ years of coaching experience at a competitive level",
		},
		Tags: []string{"Cricket", "Coaching", "Youth Development"},
	},
	{
		Title:       "Sports Physiotherapist",
		Company:     "Elite Athletes Rehabilitation Center",
		Location:    "Delhi, India",
		Type:        "Full-time",
		Salary:      "₹7,00,000 - ₹10,00,000 /year",
		Description: "Join our team of sports medicine professionals to provide high-quality physiotherapy services to elite athletes.",
		Responsibilities: []string{
			"Assess and treat sports injuries",
			"Develop rehabilitation programs",
			"Work with coaches to implement injury prevention strategies",
		},
		Requirements: []string{
			"Master's degree in Physiotherapy with specialization in Sports",
			"3+ years of experience working with athletes",
			"Knowledge of latest rehabilitation techniques and technologies",
		},
		Tags: []string{"Physiotherapy", "Rehabilitation", "Sports Medicine"},
	},
	{
		Title:       "Strength & Conditioning Coach",
		Company:     "High Performance Sports Center",
		Location:    "Pune, India",
		Type:        "Full-time",
		Salary:      "₹6,00,000 - ₹9,00,000 /year",
		Description: "We are looking for a Strength & Conditioning Coach to help athletes improve their physical capabilities and prevent injuries.",
		Responsibilities: []string{
			"Design and implement strength training programs",
			"Conduct fitness assessments",
			"Work closely with technical coaches and sports science team",
		},
		Requirements: []string{
			"Bachelor's degree in Exercise Science or related field",
			"NSCA, CSCS, or equivalent certification",
			"2+ years of experience working with competitive athletes",
		},
		Tags: []string{"S&C", "Training", "Physical Preparation"},
	},
}

var starterEvents = []CreateEventRequest{
	{
		Title:       "National Sports Analytics Conference 2023",
		Organizer:   "Sports Data Association of India",
		Location:    "Hyderabad International Convention Centre",
		Date:        "Oct 15-16, 2023",
		Time:        "9:00 AM - 5:00 PM",
		Description: "A two-day conference featuring expert speakers on sports analytics, performance metrics, and data-driven coaching strategies.",
		Image:       "https://plus.unsplash.com/premium_photo-1683140552439-c0ffcd70c25e?auto=format&fit=crop&w=2070&q=80",
		Tags:        []string{"Conference", "Analytics", "Networking"},
		Price:       "₹4,500",
	},
	{
		Title:       "Youth Athlete Development Workshop",
		Organizer:   "Sports Authority of India",
		Location:    "Jawaharlal Nehru Stadium, New Delhi",
		Date:        "Nov 5, 2023",
		Time:        "10:00 AM - 3:00 PM",
		Description: "An interactive workshop for coaches and parents on identifying and nurturing young sporting talent across various disciplines.",
		Image:       "https://images.unsplash.com/photo-1526232761682-d26e03ac148e?auto=format&fit=crop&w=2029&q=80",
		Tags:        []string{"Workshop", "Youth Development", "Coaching"},
		Price:       "₹1,200",
	},
	{
		Title:       "Sports Medicine & Rehabilitation Symposium",
		Organizer:   "Indian Association of Sports Medicine",
		Location:    "Apollo Hospitals, Chennai",
		Date:        "Dec 10-11, 2023",
		Time:        "8:30 AM - 4:30 PM",
		Description: "Learn about the latest advancements in sports injury management, rehabilitation protocols, and return-to-play strategies.",
		Image:       "https://images.unsplash.com/photo-1579684385127-1ef15d508118?auto=format&fit=crop&w=2080&q=80",
		Tags:        []string{"Medical", "Rehabilitation", "Symposium"},
		Price:       "₹5,000",
	},
	{
		Title:       "Cricket Performance Analysis Masterclass",
		Organizer:   "National Cricket Academy",
		Location:    "M. Chinnaswamy Stadium, Bangalore",
		Date:        "Nov 18, 2023",
		Time:        "9:30 AM - 4:00 PM",
		Description: "An in-depth masterclass on cricket performance analysis, featuring expert analysts from international cricket teams.",
		Image:       "https://images.unsplash.com/photo-1531415074968-036ba1b575da?auto=format&fit=crop&w=2067&q=80",
		Tags:        []string{"Cricket", "Analysis", "Masterclass"},
		Price:       "₹3,500",
	},
}

// SeedCatalogue inserts the starter jobs and events into empty tables and
// reports how many rows of each were added.
func SeedCatalogue(db *sql.DB) (jobs, events int, err error) {
	js := NewJobService(db)
	if n, err := js.Count(); err != nil {
		return 0, 0, err
	} else if n == 0 {
		for _, req := range starterJobs {
			if _, err := js.Create("", req); err != nil {
				return jobs, events, fmt.Errorf("seed job %q: %w", req.Title, err)
			}
			jobs++
		}
	}

	es := NewEventService(db)
	if n, err := es.Count(); err != nil {
		return jobs, 0, err
	} else if n == 0 {
		for _, req := range starterEvents {
			if _, err := es.Create("", req); err != nil {
				return jobs, events, fmt.Errorf("seed event %q: %w", req.Title, err)
			}
			events++
		}
	}
	return jobs, events, nil
}
