package game

// dealRoles shuffles a multiset of wolves and villagers over the seats,
// independent of who is human, then tells each wolf who its mates are.
func (s *Session) dealRoles(wolves int) {
	roles := make([]Alignment, len(s.seats))
	for i := len(roles) - wolves; i < len(roles); i++ {
		roles[i] = Wolf
	}
	s.rng.Shuffle(len(roles), func(i, j int) { roles[i], roles[j] = roles[j], roles[i] })

	s.villagers, s.wolves = nil, nil
	for i, p := range s.seats {
		p.Alignment = roles[i]
		p.Mates = nil
		if p.Alignment == Wolf {
			s.wolves = append(s.wolves, p.ID)
		} else {
			s.villagers = append(s.villagers, p.ID)
		}
	}
	s.linkWolves()
}

func (s *Session) linkWolves() {
	for _, id := range s.wolves {
		p := s.seat(id)
		for _, mate := range s.wolves {
			if mate != id {
				p.Mates = append(p.Mates, mate)
			}
		}
	}
}

// bindStrategies gives every seat its behaviour once and for all: the human
// reads its input slots, autonomous seats get the factory's strategy or
// the random default. The default is also kept as the fallback.
func (s *Session) bindStrategies() {
	for _, p := range s.seats {
		p.fallback = NewDefaultStrategy(p.Alignment, s.rng)
		if p.Human {
			p.strategy = humanSeat{s: s}
			continue
		}
		if s.personas != nil {
			p.Persona = s.personas.Pick(p.Alignment)
		}
		p.strategy = p.fallback
		if s.factory == nil {
			continue
		}
		seat := Seat{ID: p.ID, Name: p.Name, Alignment: p.Alignment, Persona: p.Persona}
		for _, id := range p.Mates {
			seat.Mates = append(seat.Mates, s.seat(id).candidate())
		}
		if st := s.factory(seat); st != nil {
			p.strategy = st
		}
	}
}
