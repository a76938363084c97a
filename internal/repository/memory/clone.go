package memory

import "github.com/spec-kit/garage-service/internal/domain"

// Callers never share slices or pointers with the stored records.

func cloneCustomer(c *domain.Customer) *domain.Customer {
	out := *c
	if c.Address != nil {
		addr := *c.Address
		out.Address = &addr
	}
	out.Vehicles = make([]domain.Vehicle, len(c.Vehicles))
	for i, v := range c.Vehicles {
		v.Year = cloneInt(v.Year)
		out.Vehicles[i] = v
	}
	out.PreferredGarages = append([]string{}, c.PreferredGarages...)
	out.ServiceHistory = make([]domain.ServiceRecord, len(c.ServiceHistory))
	for i, r := range c.ServiceHistory {
		r.Cost = cloneFloat(r.Cost)
		if r.ServiceDate != nil {
			d := *r.ServiceDate
			r.ServiceDate = &d
		}
		out.ServiceHistory[i] = r
	}
	return &out
}

func cloneGarage(g *domain.Garage) *domain.Garage {
	out := *g
	if g.Location != nil {
		loc := *g.Location
		out.Location = &loc
	}
	out.Services = make([]domain.Service, len(g.Services))
	for i, s := range g.Services {
		s.BasePrice = cloneFloat(s.BasePrice)
		out.Services[i] = s
	}
	out.Specialties = append([]string{}, g.Specialties...)
	out.Reviews = append([]domain.Review{}, g.Reviews...)
	return &out
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
